package ecs

// Each2 iterates entities present in both stores, walking the smaller one.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for id, a := range sa.data {
			if b, ok := sb.data[id]; ok {
				fn(id, a, b)
			}
		}
	} else {
		for id, b := range sb.data {
			if a, ok := sa.data[id]; ok {
				fn(id, a, b)
			}
		}
	}
}

// Each3 iterates entities present in all three stores, walking the smallest.
func Each3[A, B, C any](sa *Store[A], sb *Store[B], sc *Store[C], fn func(EntityID, *A, *B, *C)) {
	smallest := sa.Len()
	which := 0
	if sb.Len() < smallest {
		smallest = sb.Len()
		which = 1
	}
	if sc.Len() < smallest {
		which = 2
	}

	switch which {
	case 0:
		for id, a := range sa.data {
			if b, ok := sb.data[id]; ok {
				if c, ok := sc.data[id]; ok {
					fn(id, a, b, c)
				}
			}
		}
	case 1:
		for id, b := range sb.data {
			if a, ok := sa.data[id]; ok {
				if c, ok := sc.data[id]; ok {
					fn(id, a, b, c)
				}
			}
		}
	case 2:
		for id, c := range sc.data {
			if a, ok := sa.data[id]; ok {
				if b, ok := sb.data[id]; ok {
					fn(id, a, b, c)
				}
			}
		}
	}
}

// Each4 iterates entities present in all four stores, walking the smallest.
// Used by the R-Type projectile×faction collision joins.
func Each4[A, B, C, D any](sa *Store[A], sb *Store[B], sc *Store[C], sd *Store[D], fn func(EntityID, *A, *B, *C, *D)) {
	sizes := [4]int{sa.Len(), sb.Len(), sc.Len(), sd.Len()}
	which := 0
	for i := 1; i < 4; i++ {
		if sizes[i] < sizes[which] {
			which = i
		}
	}

	switch which {
	case 0:
		for id, a := range sa.data {
			if b, ok := sb.data[id]; ok {
				if c, ok := sc.data[id]; ok {
					if d, ok := sd.data[id]; ok {
						fn(id, a, b, c, d)
					}
				}
			}
		}
	case 1:
		for id, b := range sb.data {
			if a, ok := sa.data[id]; ok {
				if c, ok := sc.data[id]; ok {
					if d, ok := sd.data[id]; ok {
						fn(id, a, b, c, d)
					}
				}
			}
		}
	case 2:
		for id, c := range sc.data {
			if a, ok := sa.data[id]; ok {
				if b, ok := sb.data[id]; ok {
					if d, ok := sd.data[id]; ok {
						fn(id, a, b, c, d)
					}
				}
			}
		}
	case 3:
		for id, d := range sd.data {
			if a, ok := sa.data[id]; ok {
				if b, ok := sb.data[id]; ok {
					if c, ok := sc.data[id]; ok {
						fn(id, a, b, c, d)
					}
				}
			}
		}
	}
}
