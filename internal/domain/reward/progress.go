package reward

import "math"

// ClampPercent プログレスバーの幅として使う値を[0, 100]に丸める
func ClampPercent(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// BarWidth 表示モデルからバー幅（%）を返す
func BarWidth(vm *ViewModel) float64 {
	return ClampPercent(vm.DisplayPct())
}
