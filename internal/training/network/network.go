// Package network implements the feed-forward regression model: dense
// ReLU hidden layers with dropout and a single sigmoid output unit,
// trained with mean-squared-error loss under the Adam optimizer.
package network

import (
	"fmt"
	"math"
	"math/rand"
)

// Layer is one dense layer. Weights are stored row-major as [out][in].
type Layer struct {
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
	Activation string      `json:"activation"` // relu | sigmoid
	Dropout    float64     `json:"dropout"`    // applied after activation, training only
}

// Network is the full model. Exported fields are everything needed to
// reload and run inference; optimizer state is rebuilt per fit.
type Network struct {
	InputSize int     `json:"inputSize"`
	Layers    []Layer `json:"layers"`

	rng *rand.Rand
}

// Config sizes a new network.
type Config struct {
	InputSize   int
	HiddenUnits []int
	DropoutRate float64
	Seed        int64
}

// New builds a network with the given hidden layer sizes. The dropout
// rate is halved after the first hidden layer, matching the production
// topology.
func New(cfg Config) (*Network, error) {
	if cfg.InputSize <= 0 {
		return nil, fmt.Errorf("network: input size must be positive, got %d", cfg.InputSize)
	}
	if len(cfg.HiddenUnits) == 0 {
		return nil, fmt.Errorf("network: at least one hidden layer is required")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	n := &Network{InputSize: cfg.InputSize, rng: rng}

	in := cfg.InputSize
	dropout := cfg.DropoutRate
	for i, units := range cfg.HiddenUnits {
		if units <= 0 {
			return nil, fmt.Errorf("network: hidden layer %d has non-positive size %d", i, units)
		}
		n.Layers = append(n.Layers, newLayer(rng, in, units, "relu", dropout))
		if i == 0 {
			dropout = cfg.DropoutRate / 2
		}
		in = units
	}

	// Scalar sigmoid output; the regression target lives in [0,1].
	n.Layers = append(n.Layers, newLayer(rng, in, 1, "sigmoid", 0))

	return n, nil
}

// newLayer initializes weights with He scaling for ReLU and Xavier
// scaling for the sigmoid output.
func newLayer(rng *rand.Rand, in, out int, activation string, dropout float64) Layer {
	scale := math.Sqrt(2.0 / float64(in))
	if activation == "sigmoid" {
		scale = math.Sqrt(1.0 / float64(in))
	}

	weights := make([][]float64, out)
	for o := range weights {
		row := make([]float64, in)
		for i := range row {
			row[i] = rng.NormFloat64() * scale
		}
		weights[o] = row
	}

	return Layer{
		Weights:    weights,
		Biases:     make([]float64, out),
		Activation: activation,
		Dropout:    dropout,
	}
}

// Predict runs inference on a single feature vector.
func (n *Network) Predict(x []float64) (float64, error) {
	if len(x) != n.InputSize {
		return 0, fmt.Errorf("network: expected %d features, got %d", n.InputSize, len(x))
	}
	acts, _, _ := n.forward(x, false)
	return acts[len(acts)-1][0], nil
}

// PredictBatch runs inference over a design matrix.
func (n *Network) PredictBatch(x [][]float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i, row := range x {
		p, err := n.Predict(row)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// forward computes activations layer by layer. With training true it
// applies inverted dropout and returns the masks for backprop.
func (n *Network) forward(x []float64, training bool) (activations [][]float64, preacts [][]float64, masks [][]float64) {
	activations = make([][]float64, len(n.Layers)+1)
	preacts = make([][]float64, len(n.Layers))
	masks = make([][]float64, len(n.Layers))
	activations[0] = x

	for li, layer := range n.Layers {
		in := activations[li]
		z := make([]float64, len(layer.Weights))
		for o, row := range layer.Weights {
			sum := layer.Biases[o]
			for i, w := range row {
				sum += w * in[i]
			}
			z[o] = sum
		}
		preacts[li] = z

		a := make([]float64, len(z))
		for i, v := range z {
			a[i] = activate(layer.Activation, v)
		}

		if training && layer.Dropout > 0 {
			mask := make([]float64, len(a))
			keep := 1.0 - layer.Dropout
			for i := range a {
				if n.rng.Float64() < keep {
					mask[i] = 1.0 / keep
				}
				a[i] *= mask[i]
			}
			masks[li] = mask
		}

		activations[li+1] = a
	}
	return activations, preacts, masks
}

func activate(kind string, v float64) float64 {
	switch kind {
	case "relu":
		if v < 0 {
			return 0
		}
		return v
	case "sigmoid":
		return 1.0 / (1.0 + math.Exp(-v))
	default:
		return v
	}
}

func activateGrad(kind string, z, a float64) float64 {
	switch kind {
	case "relu":
		if z > 0 {
			return 1
		}
		return 0
	case "sigmoid":
		return a * (1 - a)
	default:
		return 1
	}
}

// Evaluate computes MSE loss and MAE over a labeled set without updating
// any parameters.
func (n *Network) Evaluate(x [][]float64, y []float64) (loss, mae float64, err error) {
	if len(x) == 0 {
		return 0, 0, nil
	}
	for i, row := range x {
		pred, perr := n.Predict(row)
		if perr != nil {
			return 0, 0, perr
		}
		diff := pred - y[i]
		loss += diff * diff
		mae += math.Abs(diff)
	}
	loss /= float64(len(x))
	mae /= float64(len(x))
	return loss, mae, nil
}
