// Package fiscal реализует разбивку дат по финансовым годам (апрель—март)
// и генерацию последовательных номеров счетов вида PREFIX/ГГ-ГГ/БNN,
// где Б — буква полугодия: S для апреля—декабря, B для января—марта.
package fiscal

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// tailRe выделяет букву полугодия и порядковый номер в конце номера счёта.
var tailRe = regexp.MustCompile(`([A-Z])(\d+)$`)

// Bucket описывает полугодие финансового года, внутри которого номера
// счетов образуют единую монотонную последовательность.
type Bucket struct {
	Prefix    string // префикс организации, например "VV"
	StartYear int    // год начала финансового года
	EndYear   int    // год окончания финансового года
	Letter    string // "S" (апрель—декабрь) или "B" (январь—март)
}

// BucketFor возвращает полугодие финансового года для указанной даты.
// Финансовый год начинается 1 апреля: даты апреля—декабря относятся к
// паре {год, год+1} с буквой S, даты января—марта — к паре {год-1, год}
// с буквой B.
func BucketFor(prefix string, date time.Time) Bucket {
	year := date.Year()
	if date.Month() >= time.April {
		return Bucket{Prefix: prefix, StartYear: year, EndYear: year + 1, Letter: "S"}
	}
	return Bucket{Prefix: prefix, StartYear: year - 1, EndYear: year, Letter: "B"}
}

// SeriesPrefix возвращает общий префикс всех номеров счетов полугодия,
// например "VV/25-26/S".
func (b Bucket) SeriesPrefix() string {
	return fmt.Sprintf("%s/%02d-%02d/%s", b.Prefix, b.StartYear%100, b.EndYear%100, b.Letter)
}

// Format форматирует порядковый номер в полный номер счёта.
// Номер дополняется нулями минимум до двух знаков.
func (b Bucket) Format(seq int) string {
	return fmt.Sprintf("%s%02d", b.SeriesPrefix(), seq)
}

// Next возвращает номер счёта, следующий за last. Пустая строка или
// номер, не оканчивающийся на букву с цифрами, трактуются как отсутствие
// предыдущего счёта — последовательность начинается с единицы.
func (b Bucket) Next(last string) string {
	seq, ok := Seq(last)
	if !ok {
		return b.Format(1)
	}
	return b.Format(seq + 1)
}

// Seq извлекает порядковый номер из номера счёта.
// Второе значение false означает, что формат номера не распознан.
func Seq(invoice string) (int, bool) {
	match := tailRe.FindStringSubmatch(invoice)
	if match == nil {
		return 0, false
	}
	seq, err := strconv.Atoi(match[2])
	if err != nil {
		return 0, false
	}
	return seq, true
}

// SeriesPattern возвращает регулярное выражение POSIX, которому обязаны
// соответствовать номера счетов полугодия. Используется хранилищем, чтобы
// игнорировать вручную внесённые номера чужого формата при поиске
// последнего выданного.
func (b Bucket) SeriesPattern() string {
	return fmt.Sprintf("^%s/%02d-%02d/%s[0-9]+$", b.Prefix, b.StartYear%100, b.EndYear%100, b.Letter)
}
