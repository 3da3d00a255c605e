// Package lencode implements likelihood (target) encoding steps for
// categorical predictors: each level of a selected nominal column is
// replaced by a single numeric value summarizing the outcome
// conditioned on that level.
//
// Three strategies are provided as a closed set of step types sharing
// the recipe.Step lifecycle:
//
//   - GLMStep fits a no-intercept generalized linear model per column
//     and stores one coefficient per level.
//   - BayesStep stores conjugate posterior means under a configurable
//     prior.
//   - MixedStep stores empirical-Bayes pooled means shrunk toward the
//     grand mean.
//
// All strategies handle levels unseen during training by storing a
// fallback value under the sentinel NewLevel entry of each column's
// LevelMapping; encountering a novel level at bake time is documented
// behavior, not an error.
package lencode
