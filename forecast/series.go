package forecast

import (
	"sort"
	"time"
)

// MonthCount количество заказов за месяц
type MonthCount struct {
	Month MonthKey `json:"month"`
	Count int      `json:"count"`
}

// MonthlySeries помесячное количество заказов.
// Строится один раз на запрос и после этого не изменяется.
// Месяцы без заказов в серии отсутствуют.
type MonthlySeries struct {
	counts map[MonthKey]int
	keys   []MonthKey
	total  int
}

// Aggregate сворачивает даты в помесячную серию
func Aggregate(dates []time.Time) *MonthlySeries {
	counts := make(map[MonthKey]int)
	for _, d := range dates {
		counts[MonthOf(d)]++
	}

	keys := make([]MonthKey, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	return &MonthlySeries{
		counts: counts,
		keys:   keys,
		total:  len(dates),
	}
}

// Len количество различных наблюдаемых месяцев
func (s *MonthlySeries) Len() int {
	return len(s.keys)
}

// Total общее количество заказов в серии
func (s *MonthlySeries) Total() int {
	return s.total
}

// Count возвращает количество заказов за месяц и признак его наличия в серии
func (s *MonthlySeries) Count(k MonthKey) (int, bool) {
	c, ok := s.counts[k]
	return c, ok
}

// Keys возвращает отсортированную копию ключей
func (s *MonthlySeries) Keys() []MonthKey {
	out := make([]MonthKey, len(s.keys))
	copy(out, s.keys)
	return out
}

// Counts возвращает количества, выровненные по Keys
func (s *MonthlySeries) Counts() []int {
	out := make([]int, len(s.keys))
	for i, k := range s.keys {
		out[i] = s.counts[k]
	}
	return out
}

// History возвращает пары (месяц, количество) в хронологическом порядке
func (s *MonthlySeries) History() []MonthCount {
	out := make([]MonthCount, len(s.keys))
	for i, k := range s.keys {
		out[i] = MonthCount{Month: k, Count: s.counts[k]}
	}
	return out
}

// IndexOf возвращает позицию месяца в отсортированных ключах или -1
func (s *MonthlySeries) IndexOf(k MonthKey) int {
	i := sort.Search(len(s.keys), func(i int) bool { return !s.keys[i].Before(k) })
	if i < len(s.keys) && s.keys[i] == k {
		return i
	}
	return -1
}

// First первый наблюдаемый месяц. Для пустой серии возвращает false.
func (s *MonthlySeries) First() (MonthKey, bool) {
	if len(s.keys) == 0 {
		return MonthKey{}, false
	}
	return s.keys[0], true
}

// Last последний наблюдаемый месяц. Для пустой серии возвращает false.
func (s *MonthlySeries) Last() (MonthKey, bool) {
	if len(s.keys) == 0 {
		return MonthKey{}, false
	}
	return s.keys[len(s.keys)-1], true
}
