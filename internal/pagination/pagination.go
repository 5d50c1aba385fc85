// Package pagination — чистая арифметика окна комментариев и номеров страниц.
//
// Внешний контракт 1-based: отсутствующая страница передаётся как 0,
// любые значения <= 0 трактуются как первая страница.
package pagination

import "math"

// MaxOffset — наибольший offset, который принимает хранилище ($slice работает с int32).
// Страницы дальше этой границы дают пустое окно.
const MaxOffset = math.MaxInt32

// Window — параметры среза для хранилища.
// Инвариант: Offset >= 0, Limit > 0.
type Window struct {
	Offset int
	Limit  int
}

// Normalize возвращает реально отдаваемую 1-based страницу.
func Normalize(page int) int {
	if page <= 0 {
		return 1
	}

	return page
}

// ForPage считает окно для запрошенной страницы.
// Неположительный pageSize — ошибка конфигурации; приводим к 1, чтобы Limit всегда был > 0.
// Offset не превышает MaxOffset: умножение проверяется до вычисления, переполнения нет.
func ForPage(page, pageSize int) Window {
	size := clampSize(pageSize)

	skipped := Normalize(page) - 1
	if skipped > MaxOffset/size {
		return Window{Offset: MaxOffset, Limit: size}
	}

	return Window{
		Offset: skipped * size,
		Limit:  size,
	}
}

// TotalPages — ceil(total/pageSize), но не меньше одной страницы.
func TotalPages(total, pageSize int) int {
	size := clampSize(pageSize)
	if total <= 0 {
		return 1
	}

	return (total + size - 1) / size
}

// PageNumbers возвращает 1..TotalPages(total, pageSize).
// Первая страница есть всегда, даже без комментариев.
func PageNumbers(total, pageSize int) []int {
	n := TotalPages(total, pageSize)

	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}

	return out
}

func clampSize(pageSize int) int {
	if pageSize < 1 {
		return 1
	}

	if pageSize > MaxOffset {
		return MaxOffset
	}

	return pageSize
}
