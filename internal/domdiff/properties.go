package domdiff

import "github.com/vango-dev/htmldiff/internal/arena"

// propSim is the per-node property similarity used by bottom-up matching
// (§4.2.2). For elements it is the Dice coefficient over attribute-key
// sets; for text/comment nodes it is 1 if the text strings are equal, 0
// otherwise.
func propSim(a, b *DiffTree, idA, idB arena.NodeID) float64 {
	ka, kb := a.KindOf(idA), b.KindOf(idB)
	if ka.Class != kb.Class {
		return 0
	}
	if ka.Class != ClassElement {
		if a.Text(idA) == b.Text(idB) {
			return 1
		}
		return 0
	}
	return dice(attrKeySet(a.Properties(idA)), attrKeySet(b.Properties(idB)))
}

func attrKeySet(attrs []arena.Attr) map[string]struct{} {
	s := make(map[string]struct{}, len(attrs))
	for _, a := range attrs {
		s[a.Namespace+":"+a.Name] = struct{}{}
	}
	return s
}

// dice computes 2|X∩Y| / (|X|+|Y|), defined as 1 when both sets are empty.
func dice[T comparable](x, y map[T]struct{}) float64 {
	if len(x) == 0 && len(y) == 0 {
		return 1
	}
	inter := 0
	for k := range x {
		if _, ok := y[k]; ok {
			inter++
		}
	}
	return 2 * float64(inter) / float64(len(x)+len(y))
}

// propState is one entry of an UpdateProperties op's final_state: a key
// from B's property set, marked Changed if its value differs from A's (or
// is new), alongside the value to use when Changed.
type propState struct {
	Namespace string
	Name      string
	Changed   bool
	Value     string
}

// diffProperties computes the final_state described in §4.3 phase 1: one
// entry per key present in b's properties, in b's order, marked Same or
// Different. needsUpdate additionally reports whether A carries keys
// absent from B (removal), which alone must still trigger an
// UpdateProperties op even when every shared key is unchanged.
func diffProperties(propsA, propsB []arena.Attr) (finalState []propState, needsUpdate bool) {
	aVal := make(map[[2]string]string, len(propsA))
	for _, a := range propsA {
		aVal[[2]string{a.Namespace, a.Name}] = a.Value
	}
	bKeys := make(map[[2]string]struct{}, len(propsB))

	finalState = make([]propState, 0, len(propsB))
	for _, b := range propsB {
		key := [2]string{b.Namespace, b.Name}
		bKeys[key] = struct{}{}
		prev, existed := aVal[key]
		changed := !existed || prev != b.Value
		if changed {
			needsUpdate = true
		}
		finalState = append(finalState, propState{
			Namespace: b.Namespace,
			Name:      b.Name,
			Changed:   changed,
			Value:     b.Value,
		})
	}

	if len(propsA) > 0 {
		for _, a := range propsA {
			key := [2]string{a.Namespace, a.Name}
			if _, ok := bKeys[key]; !ok {
				needsUpdate = true
				break
			}
		}
	}
	return finalState, needsUpdate
}

// removedKeys returns attribute keys present in propsA but absent from
// propsB, in A's order, used by the translator to emit removals alongside
// an UpdateProps patch's changed entries.
func removedKeys(propsA, propsB []arena.Attr) []propState {
	bKeys := make(map[[2]string]struct{}, len(propsB))
	for _, b := range propsB {
		bKeys[[2]string{b.Namespace, b.Name}] = struct{}{}
	}
	var removed []propState
	for _, a := range propsA {
		if _, ok := bKeys[[2]string{a.Namespace, a.Name}]; !ok {
			removed = append(removed, propState{Namespace: a.Namespace, Name: a.Name})
		}
	}
	return removed
}
