package mclog

// Severity is an ordered urgency level. Lower values are more severe.
type Severity int

// Severity levels, syslog ordered
const (
	SeverityAny     Severity = -1
	SeverityEmerg   Severity = 0
	SeverityAlert   Severity = 1
	SeverityCrit    Severity = 2
	SeverityErr     Severity = 3
	SeverityWarning Severity = 4
	SeverityNotice  Severity = 5
	SeverityInfo    Severity = 6
	SeverityDebug   Severity = 7
	SeverityUnknown Severity = 8
)

// Category is a bitset selecting the subsystems a message belongs to.
type Category uint64

// Additive categories, one bit each
const (
	CategoryGeneral Category = 1 << iota
	CategoryRecord
	CategoryPlayback
	CategoryChannel
	CategoryOSD
	CategoryFile
	CategorySchedule
	CategoryNetwork
	CategoryCommFlag
	CategoryAudio
	CategoryLibAV
	CategoryJobQueue
	CategorySIParser
	CategoryEIT
	CategoryVBI
	CategoryDatabase
	CategoryDSMCC
	CategoryMHEG
	CategoryUPnP
	CategorySocket
	CategoryXMLTV
	CategoryDVBCAM
	CategoryMedia
	CategoryIdle
	CategoryChannelScan
	CategoryGUI
	CategorySystem
	CategoryTimestamp
	CategoryProcess
	CategoryFrame
	CategoryRplxQueue
	CategoryDecode
	CategoryGPU
	CategoryGPUAudio
	CategoryGPUVideo
	CategoryRefCount
	CategoryHTTP
	CategoryLIRC
	CategoryLogging
	categoryEnd
)

// Exclusive categories, replacing the whole mask when parsed
const (
	CategoryNone Category = 0
	CategoryAll           = categoryEnd - 1
	CategoryMost          = CategoryAll &^ (CategoryTimestamp | CategoryFrame | CategoryRefCount | CategoryGPUAudio | CategoryGPUVideo)
)

// Queue and throttle defaults
const (
	defaultQueueFast       = 500
	defaultQueueSlow       = 2000
	defaultQueueHard       = 10000
	defaultBatchSize       = 16
	defaultThrottleFloorUs = 100
	defaultThrottleStepUs  = 100
	maxThrottleUs          = 5000
)

// flushProcessID marks a print record that requests an immediate flush
const flushProcessID = -1

// maxRecordLine is the largest source line a record stores
const maxRecordLine = 1<<31 - 1

// maxImplicitThreads bounds registry entries created for unregistered goroutines
const maxImplicitThreads = 4096

// timestampLayout is the rendering of record timestamps in text sinks
const timestampLayout = "2006-01-02 15:04:05.000"

// rotationLayout is the compact timestamp used in rotated file names
const rotationLayout = "20060102T150405.000000"
