package crossval

// TrainTest holds the train and test subsets of one split.
type TrainTest[F any, L comparable] struct {
	TrainFeatures []F
	TrainLabels   []L
	TestFeatures  []F
	TestLabels    []L
}

// SplitData slices features and labels by testIdx and trainIdx, keeping the
// order of the index slices.
func SplitData[F any, L comparable](features []F, labels []L, testIdx, trainIdx []int) TrainTest[F, L] {
	tt := TrainTest[F, L]{
		TrainFeatures: make([]F, len(trainIdx)),
		TrainLabels:   make([]L, len(trainIdx)),
		TestFeatures:  make([]F, len(testIdx)),
		TestLabels:    make([]L, len(testIdx)),
	}
	for i, idx := range trainIdx {
		tt.TrainFeatures[i] = features[idx]
		tt.TrainLabels[i] = labels[idx]
	}
	for i, idx := range testIdx {
		tt.TestFeatures[i] = features[idx]
		tt.TestLabels[i] = labels[idx]
	}
	return tt
}
