package hashtable

// Stats describes the shape of a table at one point in time.
type Stats struct {
	Len        int
	Cap        int
	Threshold  int
	LoadFactor float32

	// Mods is the number of structural changes made so far.
	Mods uint64

	// UsedBuckets is the number of non-empty buckets and
	// MaxChain the length of the longest chain.
	UsedBuckets int
	MaxChain    int
}

// Stats returns a snapshot of t's internal counters. It walks every
// bucket, so it costs time proportional to Cap and Len.
func (t *Table[K, V]) Stats() Stats {
	if t == nil {
		return Stats{}
	}
	s := Stats{
		Len:        t.size,
		Cap:        len(t.buckets),
		Threshold:  t.threshold,
		LoadFactor: t.loadFactor,
		Mods:       t.mods,
	}
	for _, e := range t.buckets {
		if e == nil {
			continue
		}
		s.UsedBuckets++
		n := 0
		for ; e != nil; e = e.next {
			n++
		}
		s.MaxChain = max(s.MaxChain, n)
	}
	return s
}
