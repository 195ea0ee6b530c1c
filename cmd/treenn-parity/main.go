// Command treenn-parity trains a tree network to tell
// whether a sum of ones and twos is even or odd.
package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/unixpickle/treenn"
)

var trainingData = []struct {
	Tree  string
	Label string
}{
	{"(N (N 1) (B (F +) (N 1)))", "even"},
	{"(N (N 1) (B (F +) (N 2)))", "odd"},
	{"(N (N 2) (B (F +) (N 1)))", "odd"},
	{"(N (N 2) (B (F +) (N 2)))", "even"},
	{"(N (N 1) (B (F +) (N (N 1) (B (F +) (N 2)))))", "even"},
}

var labels = treenn.Labels{"even", "odd"}

func main() {
	embedDim := flag.Int("embed", 20, "Embedding dimension")
	epochs := flag.Int("epochs", 5000, "Number of passes over the data")
	stepSize := flag.Float64("step", 0.01, "SGD step size")
	seed := flag.Int64("seed", 1, "PRNG seed")
	logEvery := flag.Int("log-every", 500, "Log every N epochs")
	savePath := flag.String("save", "", "Optional path for the trained parameters")

	flag.Parse()

	// sgd.ShuffleSampleSet draws from the global source.
	rand.Seed(*seed)

	var samples treenn.SampleSet
	for _, x := range trainingData {
		tree, err := treenn.ParseTree(x.Tree)
		if err != nil {
			log.Fatalf("parse %s: %v", x.Tree, err)
		}
		label, err := labels.Index(x.Label)
		if err != nil {
			log.Fatalf("sample %s: %v", x.Tree, err)
		}
		samples = append(samples, treenn.Sample{Tree: tree, Label: label})
	}

	vocab := treenn.NewVocab([]string{"1", "+", "2"}, *embedDim, true,
		rand.NewSource(*seed))
	params := treenn.NewParams(*embedDim, len(labels), rand.NewSource(*seed+1))
	model, err := treenn.NewModel(vocab, params)
	if err != nil {
		log.Fatalf("create model: %v", err)
	}
	model.Labels = labels

	trainer := &treenn.Trainer{
		Model:    model,
		StepSize: *stepSize,
		Epochs:   *epochs,
		Logger:   log.New(os.Stderr, "", log.LstdFlags),
		LogEvery: *logEvery,
	}
	if err := trainer.Train(samples); err != nil {
		log.Fatalf("training failed: %v", err)
	}

	var predictions []string
	for _, s := range samples {
		predicted, err := model.PredictLabel(s.Tree)
		if err != nil {
			log.Fatalf("predict %s: %v", s.Tree, err)
		}
		log.Printf("tree=%s gold=%s predicted=%s", s.Tree, labels[s.Label], predicted)
		predictions = append(predictions, predicted)
	}
	log.Printf("predictions=[%s]", strings.Join(predictions, " "))

	if *savePath != "" {
		data, err := params.Serialize()
		if err != nil {
			log.Fatalf("serialize params: %v", err)
		}
		if err := os.WriteFile(*savePath, data, 0644); err != nil {
			log.Fatalf("save params: %v", err)
		}
	}
}
