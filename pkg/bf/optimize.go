package bf

// Optimize removes adjacent inverse pairs (+- -+ >< <>) from a program.
// Cancellation is transitive through the output stack, so one linear pass
// reaches the fixpoint: +>-< collapses nothing, ++-- disappears entirely.
// Brackets and I/O ops are never cancelled.
func Optimize(p Program) Program {
	out := make(Program, 0, len(p))
	for _, op := range p {
		if n := len(out); n > 0 && inversePair(out[n-1], op) {
			out = out[:n-1]
			continue
		}
		out = append(out, op)
	}
	return out
}

func inversePair(a, b Op) bool {
	switch {
	case a == Inc && b == Dec, a == Dec && b == Inc:
		return true
	case a == MoveRight && b == MoveLeft, a == MoveLeft && b == MoveRight:
		return true
	}
	return false
}
