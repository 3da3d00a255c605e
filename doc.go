// Package embed provides likelihood (target) encoding for categorical
// predictors in tabular preprocessing pipelines: each level of a
// nominal column is replaced with a single numeric value that
// summarizes the outcome conditioned on that level.
//
// # Encoding strategies
//
//   - lencode.GLMStep: per-level coefficients from a no-intercept
//     generalized linear model (gaussian or binomial)
//   - lencode.BayesStep: conjugate posterior means under a
//     configurable prior
//   - lencode.MixedStep: empirical-Bayes pooled means shrunk toward
//     the grand mean
//
// All strategies share the two-phase recipe lifecycle: a step is
// constructed with column selectors, trained once against a table to
// produce per-level lookup mappings, and then applied to new data.
// Levels never seen during training are substituted with a stored
// fallback value.
//
// # Quick start
//
//	train, _ := table.New(
//	    table.NewStringColumn("city", []string{"A", "A", "B", "B"}),
//	    table.NewNumericColumn("sales", []float64{1, 3, 5, 7}),
//	)
//
//	step, err := lencode.NewGLMStep(recipe.Vars("sales"),
//	    []recipe.Selector{recipe.AllNominal()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	prepped, err := recipe.NewRecipe().Add(step).Prep(train)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	encoded, err := prepped.Bake(newData)
package embed
