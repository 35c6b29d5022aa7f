package impulse

// proxy is a body's entry in the broad phase for one step.
type proxy struct {
	ref  BodyRef
	body *Body
	bb   BB
}

type spatialIndexQuery func(a, b *proxy)

// spatialIndexer selects the candidate pairs handed to the narrow phase. Every
// unordered pair is reported at most once, never a proxy with itself, in a
// deterministic order.
type spatialIndexer interface {
	Pairs(proxies []proxy, f spatialIndexQuery)
}

// bruteForce tests every pair. Acceleration structures can replace it without
// touching the rest of the pipeline.
type bruteForce struct{}

func (bruteForce) Pairs(proxies []proxy, f spatialIndexQuery) {
	for i := range proxies {
		a := &proxies[i]
		for j := i + 1; j < len(proxies); j++ {
			b := &proxies[j]
			if queryReject(a, b) {
				continue
			}
			f(a, b)
		}
	}
}

// queryReject rejects pairs that cannot produce a useful contact: two immovable
// bodies, or bounded shapes whose boxes do not overlap.
func queryReject(a, b *proxy) bool {
	return (a.body.m_inv == 0 && b.body.m_inv == 0) || !a.bb.Intersects(b.bb)
}
