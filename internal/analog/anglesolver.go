package analog

// NewAngleSolver wires the Angle Solver: the half of the machine that turns
// the tracked picture into a gyro setting. The follow-up shafts (G - Br,
// impact angle, torpedo run) are driven from outside each step, standing in
// for the follow-up servo loop; resolvers 2FA and 16FA sit on those shafts
// and differentials 3FA and 18FA read the force-balance residuals between
// them, which null out as the follow-up tracks.
func NewAngleSolver() (*Graph, error) {
	b := NewBuilder().Section("Angle Solver")

	b.Input("R_in", "Range (from PK)")
	b.Input("Br_in", "Rel Bearing (from PK)")
	b.Input("A_in", "Target Angle (from PK)")
	b.Input("S_in", "Target Speed (from PK)")
	b.Input("Sz", "Torpedo Speed")
	b.Input("GmBr", "G - Br (follow-up)")
	b.Input("I_in", "Impact Angle (follow-up)")
	b.Input("U_in", "Torpedo Run (follow-up)")
	b.Input("L", "Offset Angle")

	b.Resolver("resolver_2FA", "Resolver 2FA (G-Br)", "GmBr")
	b.Resolver("resolver_16FA", "Resolver 16FA (I)", "I_in")
	b.Resolver("resolver_58FA", "Resolver 58FA (G)", "diff_22FA")

	b.Cam("cam_48FA", "Cam 48FA (M·cosG)", Cosine, "diff_22FA")
	b.Cam("cam_49FA", "Cam 49FA (M·sinG)", Sine, "diff_22FA")

	b.Differential("diff_3FA", "Diff 3FA (Eq XVII balance)", Subtract, "resolver_2FA:cos", "resolver_16FA:cos")
	b.Differential("diff_18FA", "Diff 18FA (Eq XVIII balance)", Subtract, "resolver_2FA:sin", "resolver_16FA:sin")
	b.Differential("diff_22FA", "Diff 22FA (Gyro Angle)", Add, "GmBr", "Br_in")
	b.Differential("diff_23FA", "Diff 23FA (G + Offset)", Add, "diff_22FA", "L")

	b.Output("G", "Gyro Angle", "diff_22FA")
	b.Output("I", "Impact Angle", "resolver_16FA")
	b.Output("U", "Torpedo Run", "U_in")

	return b.Build()
}
