package stereo

import (
	"math"
	"testing"
)

func defaultWeights() Weights {
	return Weights{
		BlueRedWeight:     0.7,
		CyanYellowWeight:  0.3,
		Amplification:     1.5,
		CurveExponent:     3,
		ConstantPower:     true,
		CenterThreshold:   0.08,
		CenterBoostFactor: 1.1,
	}
}

func TestTemperatureBluePullsPositive(t *testing.T) {
	w := defaultWeights()
	temp := Temperature(0, 0, 255, w)
	if temp <= 0 {
		t.Fatalf("expected blue-dominant pixel to give positive temperature, got %v", temp)
	}
}

func TestTemperatureRedPullsNegative(t *testing.T) {
	w := defaultWeights()
	temp := Temperature(255, 0, 0, w)
	if temp >= 0 {
		t.Fatalf("expected red-dominant pixel to give negative temperature, got %v", temp)
	}
}

func TestTemperatureClampsToUnitRange(t *testing.T) {
	w := defaultWeights()
	w.Amplification = 1000
	temp := Temperature(0, 0, 255, w)
	if temp > 1 || temp < -1 {
		t.Fatalf("temperature escaped [-1,1]: %v", temp)
	}
}

func TestGainsFromTemperatureEqualPowerIdentity(t *testing.T) {
	w := defaultWeights()
	w.CenterThreshold = 0 // isolate the pan law from center-boost
	g := GainsFromTemperature(0, w)

	sumSq := float64(g.Left)*float64(g.Left) + float64(g.Right)*float64(g.Right)
	if math.Abs(sumSq-1) > 1e-6 {
		t.Fatalf("expected equal-power law sum of squares == 1, got %v", sumSq)
	}
}

func TestGainsFromTemperatureFullLeftAndRight(t *testing.T) {
	w := defaultWeights()
	w.CenterThreshold = 0

	left := GainsFromTemperature(-1, w)
	if left.Right > 0.01 {
		t.Fatalf("expected pan=-1 to silence right channel, got %v", left.Right)
	}

	right := GainsFromTemperature(1, w)
	if right.Left > 0.01 {
		t.Fatalf("expected pan=1 to silence left channel, got %v", right.Left)
	}
}

func TestSnapshotPublishAndRead(t *testing.T) {
	snap := NewSnapshot(4)
	gains := []Gains{{Left: 1}, {Left: 2}, {Left: 3}, {Left: 4}}
	snap.Publish(gains)

	read := snap.Read()
	for i, g := range gains {
		if read[i].Left != g.Left {
			t.Fatalf("read[%d].Left = %v, want %v", i, read[i].Left, g.Left)
		}
	}
}

func TestSnapshotSecondPublishReplacesFirst(t *testing.T) {
	snap := NewSnapshot(2)
	snap.Publish([]Gains{{Left: 1}, {Left: 2}})
	snap.Publish([]Gains{{Left: 10}, {Left: 20}})

	read := snap.Read()
	if read[0].Left != 10 || read[1].Left != 20 {
		t.Fatalf("expected latest publish to be visible, got %+v", read)
	}
}
