package checks

// Catalog returns the built-in checks in display order. Reordering the non-label
// params of an existing check breaks every stored wire string that uses it.
func Catalog() []Check {
	return []Check{
		{
			ID:                "type",
			Name:              "Type",
			Category:          CategoryBasic,
			ExcludedFromEvals: true,
			Params: []Param{
				label("Type is"),
				{
					ID:           "type",
					Type:         TypeSelect,
					Width:        110,
					DefaultValue: "llm",
					Searchable:   true,
					Options: []Option{
						{Label: "LLM Call", Value: "llm"},
						{Label: "Agent", Value: "agent"},
						{Label: "Tool", Value: "tool"},
						{Label: "Thread", Value: "thread"},
						{Label: "Chat Message", Value: "chat"},
						{Label: "Trace", Value: "trace"},
					},
				},
			},
		},
		{
			ID:                "models",
			Name:              "Model name",
			Category:          CategoryBasic,
			ExcludedFromEvals: true,
			Params: []Param{
				label("Model is"),
				{ID: "names", Type: TypeSelect, Multiple: true, Width: 100, Resolver: staticResolver("/filters/models")},
			},
		},
		{
			ID:                "tags",
			Name:              "Tags",
			Category:          CategoryBasic,
			ExcludedFromEvals: true,
			Params: []Param{
				label("Has tags"),
				{ID: "tags", Type: TypeSelect, Multiple: true, Width: 100, Resolver: staticResolver("/filters/tags")},
			},
		},
		{
			ID:                "status",
			Name:              "Status",
			Category:          CategoryBasic,
			ExcludedFromEvals: true,
			Params: []Param{
				label("Status is"),
				{
					ID:           "status",
					Type:         TypeSelect,
					Width:        140,
					DefaultValue: "success",
					Options: []Option{
						{Label: "Completed", Value: "success"},
						{Label: "Failed", Value: "error"},
					},
				},
			},
		},
		{
			ID:                "feedback",
			Name:              "Feedback",
			Category:          CategoryBasic,
			ExcludedFromEvals: true,
			Params: []Param{
				label("Feedback"),
				{ID: "types", Type: TypeSelect, Multiple: true, Resolver: staticResolver("/filters/feedback")},
			},
		},
		{
			ID:                "users",
			Name:              "Users",
			Category:          CategoryBasic,
			ExcludedFromEvals: true,
			Params: []Param{
				label("Users"),
				{ID: "users", Type: TypeSelect, Multiple: true, Width: 100, Searchable: true, Resolver: staticResolver("/filters/users")},
			},
		},
		{
			ID:                 "metadata",
			Name:               "Metadata",
			Category:           CategoryBasic,
			ExcludedFromEvals:  true,
			UniquePerFilterSet: true,
			Params: []Param{
				label("Metadata"),
				{ID: "key", Type: TypeSelect, Width: 100, Searchable: true, Resolver: staticResolver("/filters/metadata")},
				label("is"),
				{ID: "value", Type: TypeText, Placeholder: "value"},
			},
		},
		{
			ID:       "regex",
			Name:     "Regex",
			Category: CategorySmart,
			Params: []Param{
				fieldParam(),
				matchParam(),
				label("Regex"),
				{ID: "regex", Type: TypeText, Placeholder: "^[0-9]+$"},
			},
		},
		{
			ID:          "json",
			Name:        "JSON",
			Description: "Checks if the given field is valid JSON.",
			Category:    CategorySmart,
			Params: []Param{
				fieldParam(),
				formatParam(),
				label("JSON"),
			},
		},
		{
			ID:          "python",
			Name:        "Python",
			Description: "Checks if the given field is valid python code.",
			Category:    CategorySmart,
			Soon:        true,
			Params: []Param{
				fieldParam(),
				formatParam(),
				label("Python"),
			},
		},
		{
			ID:       "length",
			Name:     "Length",
			Category: CategorySmart,
			Params: []Param{
				fieldParam(),
				operatorParam(),
				label("Length"),
				{ID: "length", Type: TypeNumber, DefaultValue: 100.0, Unit: "chars", Width: 60},
			},
		},
		{
			ID:                "date",
			Name:              "Date",
			Category:          CategoryBasic,
			ExcludedFromEvals: true,
			Params: []Param{
				operatorParam(),
				label("Date"),
				{ID: "date", Type: TypeDate},
			},
		},
		{
			ID:                "duration",
			Name:              "Duration",
			Category:          CategoryBasic,
			ExcludedFromEvals: true,
			Params: []Param{
				label("Duration"),
				operatorParam(),
				{ID: "duration", Type: TypeNumber, DefaultValue: 5.0, Min: float(0), Step: float(0.1), Width: 40, Unit: "s"},
			},
		},
		{
			ID:                "cost",
			Name:              "Cost",
			Category:          CategoryBasic,
			ExcludedFromEvals: true,
			Params: []Param{
				label("Cost"),
				operatorParam(),
				{ID: "cost", Type: TypeNumber, DefaultValue: 0.1, Min: float(0), Width: 70, Unit: "$"},
			},
		},
		{
			ID:                "tokens",
			Name:              "Tokens",
			Category:          CategoryBasic,
			ExcludedFromEvals: true,
			Params: []Param{
				{
					ID:           "field",
					Type:         TypeSelect,
					Width:        100,
					DefaultValue: "total",
					Options: []Option{
						{Label: "Completion", Value: "completion"},
						{Label: "Prompt", Value: "prompt"},
						{Label: "Total", Value: "total"},
					},
				},
				label("Tokens"),
				operatorParam(),
				{ID: "tokens", Type: TypeNumber, Min: float(0), Width: 70},
			},
		},
		{
			ID:                "radar",
			Name:              "Radar Match",
			Category:          CategorySmart,
			ExcludedFromEvals: true,
			Params: []Param{
				label("Matches radar"),
				{ID: "ids", Type: TypeSelect, Multiple: true, Width: 200, Searchable: true, Placeholder: "Select radars", Resolver: staticResolver("/filters/radars")},
			},
		},
		{
			ID:                 "search",
			Name:               "Search Match",
			Category:           CategorySmart,
			ExcludedFromEvals:  true,
			UniquePerFilterSet: true,
			Params: []Param{
				label("Search"),
				{ID: "query", Type: TypeText, Placeholder: "Search"},
			},
		},
		{
			ID:       "string",
			Name:     "String match",
			Category: CategorySmart,
			Params: []Param{
				{
					ID:           "fields",
					Type:         TypeSelect,
					Width:        70,
					DefaultValue: "output",
					Options: []Option{
						{Label: "Input", Value: "input"},
						{Label: "Output", Value: "output"},
						{Label: "Any", Value: "any"},
					},
				},
				{
					ID:           "type",
					Type:         TypeSelect,
					Width:        100,
					DefaultValue: "contains",
					Options: []Option{
						{Label: "Contains", Value: "contains"},
						{Label: "Not contains", Value: "notcontains"},
						{Label: "Starts with", Value: "starts"},
						{Label: "Ends with", Value: "ends"},
					},
				},
				{
					ID:           "sensitive",
					Type:         TypeSelect,
					Width:        120,
					DefaultValue: "false",
					Options: []Option{
						{Label: "Case sensitive", Value: "true"},
						{Label: "Case insensitive", Value: "false"},
					},
				},
				{ID: "text", Type: TypeText, Width: 100},
			},
		},
		{
			ID:          "pii",
			Name:        "PII",
			Category:    CategoryAI,
			Description: "Uses AI to detect if the given field contains personal identifiable information (PII).",
			Params: []Param{
				fieldParam(),
				matchParam(),
				{
					ID:           "entities",
					Type:         TypeSelect,
					Multiple:     true,
					Searchable:   true,
					Width:        230,
					DefaultValue: []string{"person", "location", "email", "cc", "phone", "ssn"},
					Options: []Option{
						{Label: "Name", Value: "person"},
						{Label: "Location", Value: "location"},
						{Label: "Organization", Value: "org"},
						{Label: "Email", Value: "email"},
						{Label: "Credit Card", Value: "cc"},
						{Label: "Phone", Value: "phone"},
						{Label: "SSN", Value: "ssn"},
					},
				},
			},
		},
		{
			ID:          "assertion",
			Name:        "Assertion",
			Category:    CategoryAI,
			Description: "Checks if the output matches the given requirement, using a model to grade the output.",
			EvalOnly:    true,
			Params: []Param{
				label("Output"),
				{ID: "assertion", Type: TypeText, Placeholder: "Is spoken like a pirate", Width: 140},
			},
		},
		{
			ID:          "sentiment",
			Name:        "Sentiment",
			Category:    CategoryAI,
			Description: "Uses AI to check if content is positive, neutral, or negative.",
			Params: []Param{
				fieldParam(),
				label("sentiment is"),
				{
					ID:           "sentiment",
					Type:         TypeSelect,
					Width:        140,
					DefaultValue: "positive",
					Options: []Option{
						{Label: "positive", Value: "positive"},
						{Label: "neutral", Value: "neutral"},
						{Label: "negative", Value: "negative"},
					},
				},
			},
		},
		{
			ID:          "tone",
			Name:        "Tone",
			Category:    CategoryAI,
			Description: "Assesses if the tone of the LLM response matches with the desired persona.",
			EvalOnly:    true,
			Params: []Param{
				label("Tone of output matches"),
				{
					ID:           "persona",
					Type:         TypeSelect,
					Width:        140,
					DefaultValue: "helpful",
					Searchable:   true,
					Options:      personaOptions(),
				},
				label("persona"),
			},
		},
		{
			ID:          "factualness",
			Name:        "Factualness",
			Category:    CategoryAI,
			Description: "Checks how correct the LLM's response is compared to the ideal output.",
			EvalOnly:    true,
			Params: []Param{
				label("The answer"),
				{
					ID:           "choices",
					Type:         TypeSelect,
					Multiple:     true,
					Searchable:   true,
					Width:        200,
					DefaultValue: []string{"b", "c"},
					Options: []Option{
						{Label: "is a subset of", Value: "a"},
						{Label: "is a superset of", Value: "b"},
						{Label: "contains all the same details as", Value: "c"},
						{Label: "disagrees with", Value: "d"},
						{Label: "differs (but doesn't matter from a factual standpoint)", Value: "e"},
					},
				},
				label("the ideal output"),
			},
		},
		{
			ID:          "relevancy",
			Name:        "Relevancy",
			Category:    CategoryAI,
			Description: "Checks if the LLM's response is relevant given the context and the prompt.",
			EvalOnly:    true,
			Soon:        true,
			Params: []Param{
				label("Output is >="),
				percentParam(),
				label("relevant"),
			},
		},
		{
			ID:          "toxicity",
			Name:        "Toxicity",
			Category:    CategoryAI,
			Description: "Checks if the given field contains toxic, offensive, obscene, or hateful language. English only at the moment.",
			Params: []Param{
				fieldParamAny(),
				matchParam(),
				label("toxicity"),
			},
		},
		{
			ID:          "system",
			Name:        "System Guidelines",
			Category:    CategoryAI,
			Description: "Checks if the output matches guidelines set in the 'system' message.",
			EvalOnly:    true,
			Soon:        true,
			Params: []Param{
				label("Output follows >="),
				percentParam(),
				label("system guidelines"),
			},
		},
		{
			ID:          "similarity",
			Name:        "Similarity",
			Category:    CategoryAI,
			Description: "Check if the output is similar to a given ideal output with various algorithms.",
			EvalOnly:    true,
			Params: []Param{
				label("Output is >="),
				percentParam(),
				label("similar to ideal output using"),
				{
					ID:           "algorithm",
					Type:         TypeSelect,
					Width:        100,
					DefaultValue: "ai",
					Options: []Option{
						{Label: "Smart AI", Value: "ai"},
						{Label: "Cosine (vector)", Value: "cosine"},
						{Label: "Jaccard", Value: "jaccard"},
					},
				},
				label("similarity"),
			},
		},
		{
			ID:          "rouge",
			Name:        "ROUGE",
			Category:    CategoryAI,
			Description: "ROUGE (Recall-Oriented Understudy for Gisting Evaluation) scores generated text against a reference, mostly for summarization.",
			EvalOnly:    true,
			Params: []Param{
				label("Output is >="),
				percentParam(),
				{
					ID:           "rouge",
					Type:         TypeSelect,
					Width:        100,
					DefaultValue: "n",
					Options: []Option{
						{Label: "ROUGE-n", Value: "n"},
						{Label: "ROUGE-l", Value: "l"},
						{Label: "ROUGE-s", Value: "rouge-s"},
					},
				},
			},
		},
	}
}

func personaOptions() []Option {
	personas := []struct{ label, value string }{
		{"Helpful Assistant", "helpful"},
		{"Formal", "formal"},
		{"Casual", "casual"},
		{"Teacher", "teacher"},
		{"Friendly", "friendly"},
		{"Professional", "professional"},
		{"Instructive", "instructive"},
		{"Authoritative", "authoritative"},
		{"Informative", "informative"},
		{"Sarcastic", "sarcastic"},
		{"Humorous", "humorous"},
		{"Empathetic", "empathetic"},
		{"Enthusiastic", "enthusiastic"},
		{"Motivational", "motivational"},
		{"Curious", "curious"},
		{"Sincere", "sincere"},
		{"Witty", "witty"},
		{"Pirate", "pirate"},
	}
	out := make([]Option, len(personas))
	for i, p := range personas {
		out[i] = Option{Label: p.label, Value: p.value}
	}
	return out
}
