package validation

// Rule tables for every write endpoint. The tables are data on purpose:
// the shape mirrors the API documentation and compiling them through the
// registry keeps rule lookups out of the request path.

// UniqueChecks carries the repository callbacks the register rule set
// needs for its uniqueness probes.
type UniqueChecks struct {
	Username TakenFn
	Email    TakenFn
}

// RuleSets bundles the compiled rule sets used by the handlers.
type RuleSets struct {
	Register      RuleSet
	Login         RuleSet
	ResetPassword RuleSet
	Business      RuleSet
	Review        RuleSet
}

// NewRuleSets compiles every rule table at startup. A broken table (an
// unknown rule name, a mistyped argument, a missing callback) panics here,
// before the server starts listening.
func NewRuleSets(uniq UniqueChecks) *RuleSets {
	return &RuleSets{
		Register: MustCompile([]FieldSpec{
			{Field: "username", Specs: []Spec{
				{Rule: "string"},
				{Rule: "minimum", Arg: 4},
				{Rule: "maximum", Arg: 30},
				{Rule: "required"},
				{Rule: "unique", Arg: UniqueArg{Column: "username", Taken: uniq.Username}},
			}},
			{Field: "email", Specs: []Spec{
				{Rule: "minimum", Arg: 6},
				{Rule: "maximum", Arg: 30},
				{Rule: "required"},
				{Rule: "email"},
				{Rule: "unique", Arg: UniqueArg{Column: "email", Taken: uniq.Email}},
			}},
			{Field: "password", Specs: []Spec{
				{Rule: "minimum", Arg: 6},
				{Rule: "maximum", Arg: 30},
				{Rule: "required"},
			}},
			{Field: "confirm_password", Specs: []Spec{
				{Rule: "minimum", Arg: 6},
				{Rule: "maximum", Arg: 30},
				{Rule: "required"},
				{Rule: "same", Arg: "password"},
			}},
		}),
		Login: MustCompile([]FieldSpec{
			{Field: "email", Specs: []Spec{
				{Rule: "minimum", Arg: 6},
				{Rule: "required"},
			}},
			{Field: "password", Specs: []Spec{
				{Rule: "minimum", Arg: 6},
				{Rule: "required"},
			}},
		}),
		ResetPassword: MustCompile([]FieldSpec{
			{Field: "new_password", Specs: []Spec{
				{Rule: "minimum", Arg: 6},
				{Rule: "maximum", Arg: 30},
				{Rule: "required"},
			}},
			{Field: "old_password", Specs: []Spec{
				{Rule: "minimum", Arg: 6},
				{Rule: "maximum", Arg: 30},
				{Rule: "required"},
			}},
		}),
		Business: MustCompile([]FieldSpec{
			{Field: "name", Specs: []Spec{
				{Rule: "minimum", Arg: 2},
				{Rule: "required"},
			}},
			{Field: "description", Specs: []Spec{
				{Rule: "minimum", Arg: 6},
				{Rule: "required"},
			}},
			{Field: "country", Specs: []Spec{
				{Rule: "minimum", Arg: 4},
				{Rule: "required"},
			}},
			{Field: "city", Specs: []Spec{
				{Rule: "minimum", Arg: 6},
				{Rule: "required"},
			}},
		}),
		Review: MustCompile([]FieldSpec{
			{Field: "review", Specs: []Spec{
				{Rule: "minimum", Arg: 4},
				{Rule: "required"},
			}},
		}),
	}
}
