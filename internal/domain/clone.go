package domain

// Clone returns a copy of t sharing no memory with it: days, activities, maps and
// pointer fields are all copied.
func (t Trip) Clone() Trip {
	c := t
	c.Budget = clonePtr(t.Budget)
	c.Description = clonePtr(t.Description)
	c.Preferences = cloneMap(t.Preferences)
	c.AIGenerated = cloneMap(t.AIGenerated)
	if t.Days != nil {
		c.Days = make([]TripDay, len(t.Days))
		for i, d := range t.Days {
			c.Days[i] = d.Clone()
		}
	}
	return c
}

func (d TripDay) Clone() TripDay {
	c := d
	c.Title = clonePtr(d.Title)
	c.Description = clonePtr(d.Description)
	if d.Activities != nil {
		c.Activities = make([]TripActivity, len(d.Activities))
		for i, a := range d.Activities {
			c.Activities[i] = a.Clone()
		}
	}
	return c
}

func (a TripActivity) Clone() TripActivity {
	c := a
	c.Location = clonePtr(a.Location)
	c.StartTime = clonePtr(a.StartTime)
	c.EndTime = clonePtr(a.EndTime)
	c.Duration = clonePtr(a.Duration)
	c.Cost = clonePtr(a.Cost)
	c.Description = clonePtr(a.Description)
	c.Notes = clonePtr(a.Notes)
	return c
}

// Clone returns a copy of e sharing no memory with it.
func (e Expense) Clone() Expense {
	c := e
	c.TripID = clonePtr(e.TripID)
	c.Description = clonePtr(e.Description)
	c.PaymentMethod = clonePtr(e.PaymentMethod)
	c.Notes = clonePtr(e.Notes)
	return c
}

func (b BudgetAnalysis) Clone() BudgetAnalysis {
	c := b
	if b.CategoryBreakdown != nil {
		c.CategoryBreakdown = make(map[string]float64, len(b.CategoryBreakdown))
		for k, v := range b.CategoryBreakdown {
			c.CategoryBreakdown[k] = v
		}
	}
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// cloneMap copies a decoded JSON object, descending into nested objects and arrays.
func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	c := make(map[string]any, len(m))
	for k, v := range m {
		c[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		c := make([]any, len(x))
		for i, e := range x {
			c[i] = cloneValue(e)
		}
		return c
	default:
		return v
	}
}
