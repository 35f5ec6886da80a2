package meta

// Boxing-cache holder mirrors. Constants of these types originate from
// inlined boxing logic; resolving them is not enough. The holder class must
// be initialized or the cache array does not exist at the point of use.
const (
	MirrorBoolBox    Mirror = "lang.Bool"
	MirrorCharCache  Mirror = "lang.Char.Cache"
	MirrorByteCache  Mirror = "lang.Byte.Cache"
	MirrorShortCache Mirror = "lang.Short.Cache"
	MirrorIntCache   Mirror = "lang.Int.Cache"
	MirrorLongCache  Mirror = "lang.Long.Cache"
)

// DefaultBoxCacheMirrors returns a fresh copy of the standard boxing-cache
// allow-list. Callers own the returned set and may extend or shrink it; the
// replacement pass takes the set as configuration, never reading a global.
func DefaultBoxCacheMirrors() map[Mirror]struct{} {
	return map[Mirror]struct{}{
		MirrorBoolBox:    {},
		MirrorCharCache:  {},
		MirrorByteCache:  {},
		MirrorShortCache: {},
		MirrorIntCache:   {},
		MirrorLongCache:  {},
	}
}
