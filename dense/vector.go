package dense

// Vector is a dense float64 vector.
type Vector []float64

// Zeros returns a zero vector of length n.
func Zeros(n int) Vector {
	return make(Vector, n)
}

// Ones returns a vector of length n with every entry set to 1.0.
func Ones(n int) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = 1.0
	}
	return v
}

// Len returns the number of entries.
func (v Vector) Len() int {
	return len(v)
}

// Clone returns a copy of v.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)
	return out
}

// AddInPlace adds o to v element-wise. Lengths must match.
func (v Vector) AddInPlace(o Vector) {
	for i := range v {
		v[i] += o[i]
	}
}

// ScaleInPlace multiplies every entry by s.
func (v Vector) ScaleInPlace(s float64) {
	for i := range v {
		v[i] *= s
	}
}

// Add returns v + o as a new vector. Lengths must match.
func (v Vector) Add(o Vector) Vector {
	out := v.Clone()
	out.AddInPlace(o)
	return out
}

// Scale returns v * s as a new vector.
func (v Vector) Scale(s float64) Vector {
	out := v.Clone()
	out.ScaleInPlace(s)
	return out
}

// Dot returns the dot product of v and o. Lengths must match.
func (v Vector) Dot(o Vector) float64 {
	sum := 0.0
	for i := range v {
		sum += v[i] * o[i]
	}
	return sum
}

// Sum returns the sum of all entries.
func (v Vector) Sum() float64 {
	sum := 0.0
	for i := range v {
		sum += v[i]
	}
	return sum
}
