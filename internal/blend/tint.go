package blend

// SourceAtop composites src atop dst.
//
// In premultiplied terms the operator is S*Da + D*(1-Sa) with alpha Da.
// For straight alpha that reduces to: color = lerp(D, S, Sa), alpha = Da.
// The destination's coverage is kept; src only recolors it.
func SourceAtop(dst, src uint32) uint32 {
	sa, sr, sg, sb := unpack(src)
	if sa == 0 {
		return dst
	}
	da, dr, dg, db := unpack(dst)
	if da == 0 {
		return dst
	}
	return pack(da, lerp255(dr, sr, sa), lerp255(dg, sg, sa), lerp255(db, sb, sa))
}

// Tint composites tint atop every pixel of pix in place.
// A tint with zero alpha leaves pix untouched.
func Tint(pix []uint32, tint uint32) {
	if tint>>24 == 0 {
		return
	}
	for i, p := range pix {
		pix[i] = SourceAtop(p, tint)
	}
}
