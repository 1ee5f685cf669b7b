package hub

import "fmt"

func errRegisterTimeout(cause error) error {
	return fmt.Errorf("no register message received: %w", cause)
}

func errFirstFrameNotRegister(got string) error {
	return fmt.Errorf("first frame must be register, got %q", got)
}

func errMissingField(field string) error {
	return fmt.Errorf("register payload missing %s", field)
}

func errInvalidDeviceType(got string) error {
	return fmt.Errorf("invalid device_type %q", got)
}
