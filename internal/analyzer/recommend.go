package analyzer

// #region recommend

// recommend fills reasons, suggestions and the decision from the final
// score. Suggestion thresholds look at raw factor scores.
func recommend(r *Report) {
	switch score := r.FinalScore; {
	case score > 0.8:
		r.Reasons = append(r.Reasons, "Excellent commit candidate: well-structured, tested, and documented")
		r.Decision = Commit
	case score > 0.6:
		r.Reasons = append(r.Reasons, "Good changes, ready to commit")
		if r.Factors[FactorTests] < 0.5 {
			r.Suggestions = append(r.Suggestions, "Consider adding tests for these changes")
		}
		if r.Factors[FactorDocumentation] < 0.5 {
			r.Suggestions = append(r.Suggestions, "Add documentation or comments")
		}
		r.Decision = Commit
	case score > 0.4:
		r.Reasons = append(r.Reasons, "Changes need refinement before committing")
		if r.Factors[FactorCoherence] < 0.5 {
			r.Suggestions = append(r.Suggestions, "Split into smaller, more focused commits")
		}
		if r.Factors[FactorRisk] < 0.5 {
			r.Suggestions = append(r.Suggestions, "Review risky changes carefully")
		}
		r.Decision = Wait
	default:
		r.Reasons = append(r.Reasons, "Changes are not ready for commit")
		r.Suggestions = append(r.Suggestions,
			"Break down changes into smaller, coherent pieces",
			"Ensure all changes are complete and tested",
		)
		r.Decision = Split
	}
}

// #endregion recommend
