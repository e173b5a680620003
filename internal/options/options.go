// Package options contains the program options.
package options

// Parameters contains file path options.
type Parameters struct {
	Input string
	Dump  string
}

// Flags contains behavior options.
type Flags struct {
	Capacity  uint
	Fill      bool
	FillValue byte
	Verify    bool
	Debug     bool
	Quiet     bool
}

// Program options of the verification harness.
type Program struct {
	Parameters
	Flags
}
