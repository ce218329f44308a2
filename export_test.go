package autopage

// Interrupt halts s as an interrupt delivered to a paged scope would.
func Interrupt(s *Stream) { s.interrupt() }

// Halted reports whether s has been halted by an interrupt.
func Halted(s *Stream) bool { return s.halted.Load() }
