package permission

type Capability string

const (
	// ReadLibrary is the right to list and read the photo library.
	ReadLibrary Capability = "read_library"
)

/*
Checker answers whether a capability is currently granted, and can ask
for it. Request never blocks; the callback is invoked exactly once,
on another goroutine.
*/
type Checker interface {
	CheckGranted(capability Capability) bool
	Request(capability Capability, callback func(granted bool))
}

/*
Static always gives the same answer.
*/
type Static struct {
	Granted bool
}

func (s Static) CheckGranted(capability Capability) bool {
	return s.Granted
}

func (s Static) Request(capability Capability, callback func(granted bool)) {
	go callback(s.Granted)
}
