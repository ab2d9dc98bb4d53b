package forecast

import (
	"github.com/shopspring/decimal"
)

// Precision количество знаков после запятой в прогнозных значениях
const Precision = 2

var hundred = decimal.NewFromInt(100)

// round округляет до Precision знаков. Ничьи округляются к четному.
func round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(Precision)
}

// meanOf среднее арифметическое без округления
func meanOf(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values))))
}

// meanOfCounts округленное среднее целых количеств
func meanOfCounts(counts []int) decimal.Decimal {
	if len(counts) == 0 {
		return decimal.Zero
	}
	sum := 0
	for _, c := range counts {
		sum += c
	}
	return round(decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(counts)))))
}

// MovingAverages рассчитывает скользящие средние по окну window.
// Элемент j равен среднему counts[j..j+window-1], то есть выровнен по
// индексу j+window-1 исходного ряда. Если данных меньше окна, результат пуст.
func MovingAverages(counts []int, window int) []decimal.Decimal {
	if window <= 0 || len(counts) < window {
		return nil
	}

	averages := make([]decimal.Decimal, 0, len(counts)-window+1)
	for i := window - 1; i < len(counts); i++ {
		averages = append(averages, meanOfCounts(counts[i-window+1:i+1]))
	}
	return averages
}
