// Package pagination содержит разбор параметров постраничного вывода и
// формирование заголовка Link для навигации по страницам.
package pagination

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPage и DefaultLimit применяются при отсутствующих или
// некорректных параметрах запроса.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Bounds извлекает параметры page и limit из строки запроса.
// Нечисловые и неположительные значения заменяются значениями по умолчанию.
func Bounds(query url.Values) (page, limit int) {
	page = parsePositive(query.Get("page"), DefaultPage)
	limit = parsePositive(query.Get("limit"), DefaultLimit)
	return page, limit
}

func parsePositive(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// TotalPages возвращает число страниц для указанного объёма коллекции.
func TotalPages(totalCount, limit int) int {
	if totalCount <= 0 || limit <= 0 {
		return 0
	}
	return (totalCount + limit - 1) / limit
}

// LinkHeader формирует значение заголовка Link со ссылками first, prev,
// next и last. На первой странице ссылка prev опускается, на последней —
// next. Если страница всего одна, возвращается пустая строка и заголовок
// не выставляется.
func LinkHeader(baseURL string, page, limit, totalPages int) string {
	if totalPages <= 1 {
		return ""
	}

	if page > totalPages {
		page = totalPages
	}

	link := func(p int, rel string) string {
		return fmt.Sprintf("<%s?limit=%d&page=%d>; rel=%q", baseURL, limit, p, rel)
	}

	parts := []string{link(1, "first")}
	if page > 1 {
		parts = append(parts, link(page-1, "prev"))
	}
	if page < totalPages {
		parts = append(parts, link(page+1, "next"))
	}
	parts = append(parts, link(totalPages, "last"))

	return strings.Join(parts, ", ")
}
