package analog

// NewPositionKeeper wires the Position Keeper: the half of the machine that
// tracks where the target is. Differentials 7 and 33 form relative bearing
// and target angle, resolvers 13 and 34 split them into sine and cosine
// components, and the integrator bank accumulates own-ship and target
// motion into the range-rate and bearing-rate outputs.
//
// Component numbers follow the Bureau of Ordnance OP 1631 schematics.
func NewPositionKeeper() (*Graph, error) {
	b := NewBuilder().Section("Position Keeper")

	b.Input("So", "Own Speed")
	b.Input("Co", "Own Course")
	b.Input("S", "Target Speed")
	b.Input("C", "Target Course")
	b.Input("B", "True Target Bearing")
	b.Input("R", "Range")
	b.Input("dT", "Time Motor")
	b.Input("B180", "Bearing Reciprocal")

	b.Differential("diff_7", "Differential 7 (B - Co)", Subtract, "B", "Co")
	b.Differential("diff_33", "Differential 33 (A = B + 180 - C)", Subtract, "B180", "C")

	b.Resolver("resolver_13", "Resolver 13 (sin/cos Br)", "diff_7")
	b.Resolver("resolver_34", "Resolver 34 (sin/cos A)", "diff_33")

	b.Integrator("int_20", "Integrator 20 (∫So·dT)", "So", "dT")
	b.Integrator("int_25", "Integrator 25 (∫S·dT)", "S", "dT")
	b.Integrator("int_14", "Integrator 14 (∫So·sinBr·dT)", "resolver_13:sin", "int_20")
	b.Integrator("int_15", "Integrator 15 (∫So·cosBr·dT)", "resolver_13:cos", "int_20")
	b.Integrator("int_35", "Integrator 35 (∫S·sinA·dT)", "resolver_34:sin", "int_25")
	b.Integrator("int_36", "Integrator 36 (∫S·cosA·dT)", "resolver_34:cos", "int_25")

	b.Differential("diff_28", "Differential 28 (R·dB)", Add, "int_14", "int_35")
	b.Differential("diff_29", "Differential 29 (dR)", Add, "int_15", "int_36")

	b.Output("Br", "Relative Target Bearing", "diff_7")
	b.Output("A", "Target Angle", "diff_33")
	b.Output("dR", "Change in Range", "diff_29")
	b.Output("RdB", "R × Change in Bearing", "diff_28")

	return b.Build()
}
