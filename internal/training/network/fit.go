// internal/training/network/fit.go
package network

import (
	"fmt"
	"math"
	"math/rand"
)

// FitConfig controls one optimization run.
type FitConfig struct {
	Epochs          int
	BatchSize       int
	LearningRate    float64
	ValidationSplit float64
	Seed            int64
}

// History tracks per-epoch loss and metric values. Validation slices are
// empty when no holdout was requested.
type History struct {
	Loss    []float64 `json:"loss"`
	MAE     []float64 `json:"mae"`
	ValLoss []float64 `json:"valLoss,omitempty"`
	ValMAE  []float64 `json:"valMae,omitempty"`
}

// adamState carries first and second moment estimates shaped like the
// network parameters.
type adamState struct {
	mw, vw [][][]float64
	mb, vb [][]float64
	t      int
}

const (
	adamBeta1   = 0.9
	adamBeta2   = 0.999
	adamEpsilon = 1e-8
)

func newAdamState(n *Network) *adamState {
	s := &adamState{}
	for _, layer := range n.Layers {
		mw := make([][]float64, len(layer.Weights))
		vw := make([][]float64, len(layer.Weights))
		for o := range layer.Weights {
			mw[o] = make([]float64, len(layer.Weights[o]))
			vw[o] = make([]float64, len(layer.Weights[o]))
		}
		s.mw = append(s.mw, mw)
		s.vw = append(s.vw, vw)
		s.mb = append(s.mb, make([]float64, len(layer.Biases)))
		s.vb = append(s.vb, make([]float64, len(layer.Biases)))
	}
	return s
}

// Fit runs mini-batch gradient descent for the configured number of
// epochs, shuffling before each epoch and holding out a validation
// fraction. It blocks until done; there are no suspension points.
func (n *Network) Fit(x [][]float64, y []float64, cfg FitConfig) (*History, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("network: empty training set")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("network: %d feature rows but %d targets", len(x), len(y))
	}
	if cfg.Epochs <= 0 || cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("network: epochs and batch size must be positive")
	}
	if n.rng == nil {
		n.rng = rand.New(rand.NewSource(cfg.Seed))
	}

	trainIdx, valIdx := n.split(len(x), cfg.ValidationSplit)
	opt := newAdamState(n)
	history := &History{}

	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		n.rng.Shuffle(len(trainIdx), func(i, j int) {
			trainIdx[i], trainIdx[j] = trainIdx[j], trainIdx[i]
		})

		var epochLoss, epochMAE float64
		samples := 0

		for start := 0; start < len(trainIdx); start += cfg.BatchSize {
			end := start + cfg.BatchSize
			if end > len(trainIdx) {
				end = len(trainIdx)
			}
			batch := trainIdx[start:end]

			loss, mae := n.trainBatch(x, y, batch, opt, cfg.LearningRate)
			epochLoss += loss * float64(len(batch))
			epochMAE += mae * float64(len(batch))
			samples += len(batch)
		}

		history.Loss = append(history.Loss, epochLoss/float64(samples))
		history.MAE = append(history.MAE, epochMAE/float64(samples))

		if len(valIdx) > 0 {
			valLoss, valMAE := n.evaluateIdx(x, y, valIdx)
			history.ValLoss = append(history.ValLoss, valLoss)
			history.ValMAE = append(history.ValMAE, valMAE)
		}
	}

	return history, nil
}

// split shuffles all indexes once and carves the validation fraction off
// the end.
func (n *Network) split(total int, valSplit float64) (train, val []int) {
	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	n.rng.Shuffle(total, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

	valCount := int(float64(total) * valSplit)
	// Never hold out the entire set.
	if valCount >= total {
		valCount = total - 1
	}
	cut := total - valCount
	return idx[:cut], idx[cut:]
}

// trainBatch accumulates gradients over one mini-batch and applies a
// single Adam update. Returns the batch's mean loss and MAE.
func (n *Network) trainBatch(x [][]float64, y []float64, batch []int, opt *adamState, lr float64) (loss, mae float64) {
	gradW := make([][][]float64, len(n.Layers))
	gradB := make([][]float64, len(n.Layers))
	for li, layer := range n.Layers {
		gradW[li] = make([][]float64, len(layer.Weights))
		for o := range layer.Weights {
			gradW[li][o] = make([]float64, len(layer.Weights[o]))
		}
		gradB[li] = make([]float64, len(layer.Biases))
	}

	for _, idx := range batch {
		acts, preacts, masks := n.forward(x[idx], true)
		pred := acts[len(acts)-1][0]
		diff := pred - y[idx]
		loss += diff * diff
		mae += math.Abs(diff)

		// d(MSE)/d(pred) for one sample.
		delta := []float64{2 * diff}

		for li := len(n.Layers) - 1; li >= 0; li-- {
			layer := n.Layers[li]
			in := acts[li]
			z := preacts[li]
			out := acts[li+1]

			// Through the activation (and dropout mask, which scales the
			// gradient exactly like it scaled the activation).
			local := make([]float64, len(delta))
			for o := range delta {
				g := delta[o] * activateGrad(layer.Activation, z[o], undrop(out[o], masks[li], o))
				if masks[li] != nil {
					g *= masks[li][o]
				}
				local[o] = g
			}

			for o, g := range local {
				gradB[li][o] += g
				for i := range layer.Weights[o] {
					gradW[li][o][i] += g * in[i]
				}
			}

			if li > 0 {
				next := make([]float64, len(layer.Weights[0]))
				for o, g := range local {
					for i, w := range layer.Weights[o] {
						next[i] += g * w
					}
				}
				delta = next
			}
		}
	}

	scale := 1.0 / float64(len(batch))
	opt.t++
	bc1 := 1 - math.Pow(adamBeta1, float64(opt.t))
	bc2 := 1 - math.Pow(adamBeta2, float64(opt.t))

	for li := range n.Layers {
		for o := range n.Layers[li].Weights {
			for i := range n.Layers[li].Weights[o] {
				g := gradW[li][o][i] * scale
				opt.mw[li][o][i] = adamBeta1*opt.mw[li][o][i] + (1-adamBeta1)*g
				opt.vw[li][o][i] = adamBeta2*opt.vw[li][o][i] + (1-adamBeta2)*g*g
				mHat := opt.mw[li][o][i] / bc1
				vHat := opt.vw[li][o][i] / bc2
				n.Layers[li].Weights[o][i] -= lr * mHat / (math.Sqrt(vHat) + adamEpsilon)
			}
			g := gradB[li][o] * scale
			opt.mb[li][o] = adamBeta1*opt.mb[li][o] + (1-adamBeta1)*g
			opt.vb[li][o] = adamBeta2*opt.vb[li][o] + (1-adamBeta2)*g*g
			mHat := opt.mb[li][o] / bc1
			vHat := opt.vb[li][o] / bc2
			n.Layers[li].Biases[o] -= lr * mHat / (math.Sqrt(vHat) + adamEpsilon)
		}
	}

	return loss / float64(len(batch)), mae / float64(len(batch))
}

// undrop recovers the pre-dropout activation for gradient computation.
func undrop(a float64, mask []float64, o int) float64 {
	if mask == nil || mask[o] == 0 {
		return a
	}
	return a / mask[o]
}

func (n *Network) evaluateIdx(x [][]float64, y []float64, idx []int) (loss, mae float64) {
	for _, i := range idx {
		pred, _ := n.Predict(x[i])
		diff := pred - y[i]
		loss += diff * diff
		mae += math.Abs(diff)
	}
	loss /= float64(len(idx))
	mae /= float64(len(idx))
	return loss, mae
}
