package motor

import (
	"math"
	"testing"
)

func TestSampleBufferDCRemoval(t *testing.T) {
	b := NewSampleBuffer(4, 4)

	// A constant 10 A offset must vanish from the snapshot.
	for _, v := range []float64{1, -1, 1, -1} {
		b.Push(Sample{Ia: 10 + v, Ib: 10 - v, Ic: 10})
	}

	ia, ib, ic := b.SnapshotCurrents()
	for _, ch := range [][]float64{ia, ib, ic} {
		sum := 0.0
		for _, v := range ch {
			sum += v
		}
		if math.Abs(sum) > 1e-9 {
			t.Errorf("snapshot mean not zero: sum = %v", sum)
		}
	}
	if ia[0] != 1 || ia[1] != -1 {
		t.Errorf("ia snapshot = %v, want offset-free values", ia)
	}
}

func TestSampleBufferEvictionOrder(t *testing.T) {
	b := NewSampleBuffer(3, 3)
	for _, v := range []float64{1, 2, 3, 4} {
		b.Push(Sample{Ia: v})
	}

	if b.Len() != 3 {
		t.Fatalf("Len = %d, want 3", b.Len())
	}

	// Oldest value 1 evicted; snapshot is {2,3,4} minus their mean 3.
	ia, _, _ := b.SnapshotCurrents()
	want := []float64{-1, 0, 1}
	for i := range want {
		if math.Abs(ia[i]-want[i]) > 1e-12 {
			t.Errorf("ia[%d] = %v, want %v", i, ia[i], want[i])
		}
	}
}

func TestSampleBufferPushReturnsDCRemoved(t *testing.T) {
	b := NewSampleBuffer(2, 2)
	b.Push(Sample{Ia: 4, Ib: 4, Ic: 4})
	ia, ib, ic := b.Push(Sample{Ia: 6, Ib: 2, Ic: 4})

	// Means after the second push: ia 5, ib 3, ic 4.
	if ia != 1 || ib != -1 || ic != 0 {
		t.Errorf("DC-removed push = (%v, %v, %v), want (1, -1, 0)", ia, ib, ic)
	}
}

func TestAuxHistories(t *testing.T) {
	b := NewSampleBuffer(10, 2)
	b.Push(Sample{Ax: 1, Ay: 2, Az: 3, Temp: 30})
	b.Push(Sample{Ax: 4, Ay: 5, Az: 6, Temp: 31})
	b.Push(Sample{Ax: 7, Ay: 8, Az: 9, Temp: 32})

	ax, ay, az := b.AccelHistory()
	if len(ax) != 2 || ax[0] != 4 || ax[1] != 7 {
		t.Errorf("ax history = %v, want [4 7]", ax)
	}
	if ay[1] != 8 || az[1] != 9 {
		t.Errorf("ay/az history = %v/%v, want newest 8/9", ay, az)
	}

	temps := b.TempHistory()
	if len(temps) != 2 || temps[0] != 31 || temps[1] != 32 {
		t.Errorf("temp history = %v, want [31 32]", temps)
	}
}
