// Package crossval is the root of a model-agnostic cross-validation library
// for Go classifiers.
//
// The library estimates how well a classifier generalizes by training it on
// one part of a labelled data set and predicting the other part, over every
// split of a validation scheme. It does not care how the classifier works:
// anything that can be trained on features and labels and then predict labels
// can be plugged in.
//
// # Installation
//
//	go get github.com/YuminosukeSato/crossval
//
// # Quick Start
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//	    "os"
//
//	    "github.com/YuminosukeSato/crossval/crossval"
//	    "github.com/YuminosukeSato/crossval/report"
//	)
//
//	func main() {
//	    features := []float64{-3, -2, -1, 1, 2, 3}
//	    labels := []int{-1, -1, -1, 1, 1, 1}
//
//	    sign := func(_ []float64, _ []int, test []float64) ([]int, error) {
//	        out := make([]int, len(test))
//	        for i, x := range test {
//	            if x < 0 {
//	                out[i] = -1
//	            } else {
//	                out[i] = 1
//	            }
//	        }
//	        return out, nil
//	    }
//
//	    cm, err := crossval.KFoldWithCallback(context.Background(), features, labels, 3, sign,
//	        crossval.WithSeed(7))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := report.WriteSummary(os.Stdout, cm); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Packages
//
//   - crossval: combination generator, k-fold partitioner, splitters and the validator
//   - metrics: generic confusion matrix and its per-label metrics
//   - core/model: estimator adapters (stateful, one-shot, callback, gonum matrix models)
//   - report: text summaries and confusion matrix heat maps
//   - config: YAML and environment configuration of an evaluation
//   - pkg/errors: structured errors and warnings
//   - pkg/log: logger interface with slog and zerolog backends
//
// # License
//
// Released under the MIT License.
package crossval
