// core/stage/set.go
package stage

import "strings"

// Set is a value-typed set of stages. Sets compare with ==.
type Set struct {
	on [count]bool
}

func Of(stages ...Stage) Set {
	var s Set
	for _, st := range stages {
		if st.Valid() {
			s.on[st] = true
		}
	}
	return s
}

// Range is the inclusive set from..to in pipeline order.
func Range(from, to Stage) Set {
	var s Set
	for st := from; st <= to && st.Valid(); st++ {
		s.on[st] = true
	}
	return s
}

func (s Set) Has(st Stage) bool { return st.Valid() && s.on[st] }

func (s Set) Union(o Set) Set {
	for i := range s.on {
		s.on[i] = s.on[i] || o.on[i]
	}
	return s
}

func (s Set) Without(stages ...Stage) Set {
	for _, st := range stages {
		if st.Valid() {
			s.on[st] = false
		}
	}
	return s
}

func (s Set) Len() int {
	n := 0
	for _, v := range s.on {
		if v {
			n++
		}
	}
	return n
}

// Stages lists members in pipeline order.
func (s Set) Stages() []Stage {
	var out []Stage
	for i, v := range s.on {
		if v {
			out = append(out, Stage(i))
		}
	}
	return out
}

func (s Set) String() string {
	parts := make([]string, 0, s.Len())
	for _, st := range s.Stages() {
		parts = append(parts, st.String())
	}
	return "{" + strings.Join(parts, ",") + "}"
}
