package validation

// RegisterSchema validates the registration payload.
func RegisterSchema() Schema {
	return Schema{
		{Name: "firstName", Rules: []Rule{Required("Firstname is required!")}},
		{Name: "lastName", Rules: []Rule{Required("Lastname is required!")}},
		{Name: "email", Rules: []Rule{
			Required("Email is required!"),
			Email("Email format isn't correct!"),
		}},
		{Name: "password", Rules: []Rule{
			Required("Password is required!"),
			MinLength(8, "Password should be at least 8 chars"),
		}},
	}
}

// LoginSchema validates the login payload.
func LoginSchema() Schema {
	return Schema{
		{Name: "email", Rules: []Rule{
			Required("Email is required!"),
			Email("Email format isn't correct!"),
		}},
		{Name: "password", Rules: []Rule{Required("Password is required!")}},
	}
}
