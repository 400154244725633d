package workflow

type testWorkflow struct {
	steps   []*Step
	mapping *Mapping
}

func (w *testWorkflow) ID() WorkflowID      { return "test" }
func (w *testWorkflow) InitialStep() StepID { return w.steps[0].ID }
func (w *testWorkflow) Mapping() *Mapping   { return w.mapping }
func (w *testWorkflow) Steps() []*Step      { return w.steps }

func (w *testWorkflow) GetStep(id StepID) (*Step, bool) {
	for _, s := range w.steps {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

func (w *testWorkflow) StepForPage(page string) (*Step, bool) {
	for _, s := range w.steps {
		if s.PageName() == page {
			return s, true
		}
	}
	return nil, false
}

// newTestWorkflow is a three step journey: a yes/no gate, an address step
// with a postcode, and a multi-select with a checkbox.
func newTestWorkflow() *testWorkflow {
	mapping := &Mapping{OnBehalf: "for_someone", FirstName: "name"}
	mapping.NotifyEmail.OnBehalf = "their_email"
	mapping.NotifyEmail.Self = "email"
	mapping.Fields = []MappingRule{
		{Name: "for_someone", Rule: MapFlag, Source: "for_someone"},
		{Name: "their_email", Rule: MapOnBehalfText, Source: "their_email"},
		{Name: "postcode", Rule: MapText, Sources: []string{"postcode", "lookup"}},
		{Name: "needs_food", Rule: MapContains, Source: "needs", Value: "food"},
		{Name: "needs", Rule: MapJoin, Source: "needs"},
		{Name: "agreed", Rule: MapFlag, Source: "agreed"},
	}

	return &testWorkflow{
		mapping: mapping,
		steps: []*Step{
			{
				ID:   "one",
				Page: "index",
				Fields: []Field{
					{Name: "for_someone", Kind: KindBoolean},
					{Name: "their_email", Kind: KindText},
					{Name: "email", Kind: KindText},
					{Name: "name", Kind: KindText},
				},
				Rules: []FieldRule{
					Rule("for_someone", "Select yes or no", Required),
					Rule("their_email", "Enter a valid email", Email, Trim).When("their_email"),
				},
				Branches: []Branch{{When: IsFalse("for_someone"), Then: GoTo("two")}},
				Default:  ExitEarly("1"),
			},
			{
				ID: "two",
				Fields: []Field{
					{Name: "lookup", Kind: KindText},
					{Name: "postcode", Kind: KindText},
					{Name: "area", Kind: KindText, Hidden: true},
				},
				Rules: []FieldRule{
					Rule("lookup", "Enter a real postcode", Required, Trim, Escape),
					Rule("lookup", "Enter a real postcode", PostcodeGB, Trim, Upper).When("lookup"),
				},
				Branches: []Branch{{When: NotEquals("area", "LOCAL"), Then: ExitEarly("2")}},
				Default:  GoTo("three"),
			},
			{
				ID: "three",
				Fields: []Field{
					{Name: "needs", Kind: KindMulti},
					{Name: "agreed", Kind: KindFlag},
					{Name: "age", Kind: KindText},
				},
				Rules: []FieldRule{
					Rule("needs", "Select what you need", Required),
					Rule("age", "Enter a number", Numeric, Trim).When("age"),
				},
				Default: Finish(),
			},
		},
	}
}
