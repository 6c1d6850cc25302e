package forecast

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"TSLab/internal/domain/models"
	"TSLab/internal/timeseries"
)

// SequenceNetwork is an LSTM-style recurrent forecaster. The series is
// min-max scaled to [0,1] and cut into sliding windows; two stacked gated
// recurrent layers with fixed random weights extract features, dropout thins
// them, and a dense readout is solved by least squares against the next
// scaled value. Multi-step forecasts feed the scaled prediction back into
// the window, so error compounds with the horizon.
type SequenceNetwork struct {
	SeqLength  int
	HiddenSize int
	Dropout    float64

	layer1  *lstmCell
	layer2  *lstmCell
	readout []float64

	scaleMin float64
	scaleMax float64
	fitted   []float64
	valLoss  float64
	data     *timeseries.Series
	isFit    bool
}

// NewSequenceNetwork creates a network with window length 60, hidden size 32
// and dropout 0.2.
func NewSequenceNetwork() *SequenceNetwork {
	return &SequenceNetwork{SeqLength: 60, HiddenSize: 32, Dropout: 0.2}
}

// Fit scales the series, builds windows, and solves the dense readout over
// the recurrent features. The last 20% of windows are held out to report a
// validation loss.
func (m *SequenceNetwork) Fit(s *timeseries.Series) error {
	n := s.Len()
	seqLen := m.SeqLength
	if n < seqLen+10 {
		seqLen = n / 3
		if seqLen < 4 {
			return fmt.Errorf("%w: sequence network needs at least %d points, have %d",
				models.ErrInsufficientData, m.SeqLength+10, n)
		}
	}
	m.SeqLength = seqLen
	m.data = s

	scaled := m.scale(s.Values)

	numWindows := n - seqLen
	rng := rand.New(rand.NewSource(42))
	m.layer1 = newLSTMCell(1, m.HiddenSize, rng)
	m.layer2 = newLSTMCell(m.HiddenSize, m.HiddenSize, rng)

	features := make([][]float64, numWindows)
	targets := make([]float64, numWindows)
	for i := 0; i < numWindows; i++ {
		features[i] = m.encode(scaled[i : i+seqLen])
		targets[i] = scaled[i+seqLen]
	}

	// Dropout at train time: scale retained features so the readout sees the
	// same expectation it will at inference.
	keep := 1 - m.Dropout
	trainFeatures := make([][]float64, numWindows)
	for i, f := range features {
		tf := make([]float64, len(f))
		for j, v := range f {
			if rng.Float64() < keep {
				tf[j] = v / keep
			}
		}
		trainFeatures[i] = tf
	}

	split := numWindows - numWindows/5
	if split < 1 {
		split = numWindows
	}

	if err := m.solveReadout(trainFeatures[:split], targets[:split]); err != nil {
		return err
	}

	if split < numWindows {
		sse := 0.0
		for i := split; i < numWindows; i++ {
			d := targets[i] - dot(m.readout, features[i])
			sse += d * d
		}
		m.valLoss = sse / float64(numWindows-split)
	}

	m.fitted = make([]float64, n)
	for i := range m.fitted {
		m.fitted[i] = math.NaN()
	}
	for i := 0; i < numWindows; i++ {
		m.fitted[i+seqLen] = m.unscale(dot(m.readout, features[i]))
	}

	m.isFit = true
	return nil
}

func (m *SequenceNetwork) solveReadout(features [][]float64, targets []float64) error {
	rows := len(features)
	cols := len(features[0])

	X := mat.NewDense(rows, cols, nil)
	for i, f := range features {
		X.SetRow(i, f)
	}
	y := mat.NewVecDense(rows, append([]float64(nil), targets...))

	// Ridge-regularized normal equations keep the solve stable when windows
	// outnumber hidden units only slightly.
	var xtx mat.Dense
	xtx.Mul(X.T(), X)
	for j := 0; j < cols; j++ {
		xtx.Set(j, j, xtx.At(j, j)+1e-4)
	}
	var xty mat.VecDense
	xty.MulVec(X.T(), y)

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		return fmt.Errorf("%w: readout solve failed: %v", models.ErrFitting, err)
	}

	m.readout = make([]float64, cols)
	for j := 0; j < cols; j++ {
		m.readout[j] = beta.AtVec(j)
	}
	return nil
}

// encode runs a scaled window through both recurrent layers and returns the
// final hidden state of the second layer plus a bias term.
func (m *SequenceNetwork) encode(window []float64) []float64 {
	h1, c1 := make([]float64, m.HiddenSize), make([]float64, m.HiddenSize)
	h2, c2 := make([]float64, m.HiddenSize), make([]float64, m.HiddenSize)
	for _, v := range window {
		h1, c1 = m.layer1.step([]float64{v}, h1, c1)
		h2, c2 = m.layer2.step(h1, h2, c2)
	}
	out := make([]float64, m.HiddenSize+1)
	copy(out, h2)
	out[m.HiddenSize] = 1
	return out
}

func (m *SequenceNetwork) scale(values []float64) []float64 {
	m.scaleMin, m.scaleMax = values[0], values[0]
	for _, v := range values {
		if v < m.scaleMin {
			m.scaleMin = v
		}
		if v > m.scaleMax {
			m.scaleMax = v
		}
	}
	span := m.scaleMax - m.scaleMin
	scaled := make([]float64, len(values))
	for i, v := range values {
		if span > 0 {
			scaled[i] = (v - m.scaleMin) / span
		} else {
			scaled[i] = 0.5
		}
	}
	return scaled
}

func (m *SequenceNetwork) unscale(v float64) float64 {
	return v*(m.scaleMax-m.scaleMin) + m.scaleMin
}

// Forecast rolls the window forward, feeding each scaled prediction back as
// the next input. The interval uses the spread of the forecast sequence
// itself, falling back to a fraction of the data spread for a single step.
func (m *SequenceNetwork) Forecast(periods int, confidence float64) (*Interval, error) {
	if !m.isFit {
		return nil, fmt.Errorf("%w: forecast requested on unfit sequence network", models.ErrState)
	}
	if periods < 1 {
		return nil, fmt.Errorf("%w: periods must be positive", models.ErrInvalidParameter)
	}

	scaled := m.scale(m.data.Values)
	window := append([]float64(nil), scaled[len(scaled)-m.SeqLength:]...)

	forecast := make([]float64, periods)
	for h := 0; h < periods; h++ {
		pred := dot(m.readout, m.encode(window))
		forecast[h] = m.unscale(pred)
		window = append(window[1:], pred)
	}

	var spread float64
	if periods > 1 {
		mean := 0.0
		for _, v := range forecast {
			mean += v
		}
		mean /= float64(periods)
		ss := 0.0
		for _, v := range forecast {
			d := v - mean
			ss += d * d
		}
		spread = math.Sqrt(ss / float64(periods-1))
	} else {
		spread = 0.1 * m.data.Std()
	}

	z := zScore(confidence)
	lower := make([]float64, periods)
	upper := make([]float64, periods)
	for i, v := range forecast {
		lower[i] = v - z*spread
		upper[i] = v + z*spread
	}
	return &Interval{Forecast: forecast, Lower: lower, Upper: upper}, nil
}

// FittedValues returns the one-step predictions over the training windows
// with the warm-up gap filled.
func (m *SequenceNetwork) FittedValues() ([]float64, error) {
	if !m.isFit {
		return nil, fmt.Errorf("%w: fitted values requested on unfit sequence network", models.ErrState)
	}
	return fillGaps(m.fitted), nil
}

// Info reports network shape and validation loss.
func (m *SequenceNetwork) Info() map[string]any {
	info := map[string]any{
		"seq_length":  m.SeqLength,
		"hidden_size": m.HiddenSize,
		"dropout":     m.Dropout,
	}
	if m.isFit {
		info["validation_loss"] = m.valLoss
	}
	return info
}

// lstmCell holds the four gate weight blocks of a single recurrent layer.
type lstmCell struct {
	inSize, hiddenSize             int
	wInput, wForget, wOutput, wGen *mat.Dense
	bInput, bForget, bOutput, bGen []float64
}

func newLSTMCell(inSize, hiddenSize int, rng *rand.Rand) *lstmCell {
	scale := 1 / math.Sqrt(float64(inSize+hiddenSize))
	block := func() *mat.Dense {
		w := mat.NewDense(hiddenSize, inSize+hiddenSize, nil)
		for i := 0; i < hiddenSize; i++ {
			for j := 0; j < inSize+hiddenSize; j++ {
				w.Set(i, j, rng.NormFloat64()*scale)
			}
		}
		return w
	}
	bias := func(v float64) []float64 {
		b := make([]float64, hiddenSize)
		for i := range b {
			b[i] = v
		}
		return b
	}
	return &lstmCell{
		inSize: inSize, hiddenSize: hiddenSize,
		wInput: block(), wForget: block(), wOutput: block(), wGen: block(),
		// Forget bias starts positive so early steps keep their cell state.
		bInput: bias(0), bForget: bias(1), bOutput: bias(0), bGen: bias(0),
	}
}

func (c *lstmCell) step(x, h, cell []float64) ([]float64, []float64) {
	joint := make([]float64, c.inSize+c.hiddenSize)
	copy(joint, x)
	copy(joint[c.inSize:], h)

	gate := func(w *mat.Dense, b []float64, act func(float64) float64) []float64 {
		out := make([]float64, c.hiddenSize)
		for i := 0; i < c.hiddenSize; i++ {
			sum := b[i]
			for j, v := range joint {
				sum += w.At(i, j) * v
			}
			out[i] = act(sum)
		}
		return out
	}

	in := gate(c.wInput, c.bInput, sigmoid)
	forget := gate(c.wForget, c.bForget, sigmoid)
	out := gate(c.wOutput, c.bOutput, sigmoid)
	gen := gate(c.wGen, c.bGen, math.Tanh)

	newCell := make([]float64, c.hiddenSize)
	newH := make([]float64, c.hiddenSize)
	for i := 0; i < c.hiddenSize; i++ {
		newCell[i] = forget[i]*cell[i] + in[i]*gen[i]
		newH[i] = out[i] * math.Tanh(newCell[i])
	}
	return newH, newCell
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
