package mathutil

// IdentityTol is the element-wise tolerance used when checking that a
// composed joint transform collapses back to the identity.
const IdentityTol = 1e-5

// BasisFromAxis returns an orthonormal frame whose third column is the
// normalized axis z. The helper vector is swapped out when z is nearly
// parallel to it.
func BasisFromAxis(z Vec3) Mat3 {
	z = z.Normalize()
	helper := Vec3{0, 0, 1}
	if d := z.Dot(helper); d > 0.99 || d < -0.99 {
		helper = Vec3{1, 0, 0}
	}
	y := z.Cross(helper).Normalize()
	x := y.Cross(z).Normalize()
	return Mat3{
		x[0], y[0], z[0],
		x[1], y[1], z[1],
		x[2], y[2], z[2],
	}
}
