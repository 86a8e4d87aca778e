package mclog

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterner(t *testing.T) {
	in := NewInterner()

	assert.Equal(t, Handle(0), in.Intern(""))
	assert.Equal(t, "", in.Resolve(0))

	h := in.Intern("mythbackend.cpp")
	assert.NotZero(t, h)
	assert.Equal(t, h, in.Intern("mythbackend.cpp"))
	assert.Equal(t, "mythbackend.cpp", in.Resolve(h))

	other := in.Intern("scheduler.cpp")
	assert.NotEqual(t, h, other)
	assert.Equal(t, 2, in.Len())

	assert.Equal(t, "", in.Resolve(Handle(12345)))
}

func TestHashStringNeverZero(t *testing.T) {
	for i := 0; i < 10000; i++ {
		assert.NotZero(t, hashString(fmt.Sprintf("s%d", i)))
	}
}

func TestInternerConcurrent(t *testing.T) {
	in := NewInterner()

	var wg sync.WaitGroup
	handles := make([]Handle, 20)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				in.Intern(fmt.Sprintf("file%d.cpp", j))
			}
			handles[i] = in.Intern("shared.cpp")
		}(i)
	}
	wg.Wait()

	for _, h := range handles {
		assert.Equal(t, handles[0], h)
	}
	assert.Equal(t, "shared.cpp", in.Resolve(handles[0]))
	assert.Equal(t, 101, in.Len())
}
