package sim

// bitPosition maps qubit q of an n-qubit register to its bit in a basis index.
func bitPosition(q, n int) int {
	return n - 1 - q
}

func qubitMask(q, n int) int {
	return 1 << bitPosition(q, n)
}

// FullOperator builds the 2^n×2^n operator of op on an n-qubit register.
func FullOperator(op Operation, n int) (*Matrix, error) {
	if err := op.Validate(n); err != nil {
		return nil, err
	}
	switch op.Gate.Kind {
	case ControlledNot:
		return controlledNotOperator(n, op.Qubits[0], op.Qubits[1]), nil
	case Swap:
		return swapOperator(n, op.Qubits[0], op.Qubits[1]), nil
	default:
		return expandSingleQubit(op.Gate, op.Qubits[0], n)
	}
}

// expandSingleQubit returns M_{n-1} ⊗ … ⊗ M_0 where M_k is the gate matrix at
// the target's bit position and the identity elsewhere.
func expandSingleQubit(g Gate, q, n int) (*Matrix, error) {
	u, err := Unitary(g)
	if err != nil {
		return nil, err
	}
	id := Identity(2)
	target := bitPosition(q, n)
	full := Identity(1)
	for k := n - 1; k >= 0; k-- {
		if k == target {
			full = Kronecker(full, u)
		} else {
			full = Kronecker(full, id)
		}
	}
	return full, nil
}

// controlledNotOperator flips the target bit of every basis index whose
// control bit is set.
func controlledNotOperator(n, control, target int) *Matrix {
	dim := 1 << n
	cm := qubitMask(control, n)
	tm := qubitMask(target, n)
	m := NewMatrix(dim, dim)
	for i := 0; i < dim; i++ {
		j := i
		if i&cm != 0 {
			j ^= tm
		}
		m.Set(j, i, 1)
	}
	return m
}

// swapOperator exchanges the bits of qubits a and b in every basis index.
func swapOperator(n, a, b int) *Matrix {
	dim := 1 << n
	am := qubitMask(a, n)
	bm := qubitMask(b, n)
	m := NewMatrix(dim, dim)
	for i := 0; i < dim; i++ {
		j := i
		if (i&am != 0) != (i&bm != 0) {
			j ^= am | bm
		}
		m.Set(j, i, 1)
	}
	return m
}
