// Package gmix fits finite mixtures of multivariate Gaussians with a
// regularized expectation-maximization algorithm.
//
// A Model stores component means, mixing weights and precisions (inverse
// covariances), in either full or diagonal parameterization. Fitting is
// maximum a posteriori under the weakly informative conjugate prior of
// Fraley and Raftery (Journal of Classification 24, 2007), which keeps
// covariance estimates finite even when a component captures almost no
// points. Initialization is delegated to a Seeder, k-means by default;
// convergence is declared when the average data log-likelihood stops
// improving; and BestFit compares candidate component counts through a
// Bayesian information criterion approximation of the model evidence.
//
// Datasets are gonum matrices with one sample per row. The estimators read
// them and never write. Typical use:
//
//	model, err := gmix.BestFit(data, []int{1, 2, 3, 4}, gmix.PrecFull, gmix.DefaultOptions())
//	if err != nil {
//		// ...
//	}
//	labels, err := model.MapLabel(data)
package gmix
