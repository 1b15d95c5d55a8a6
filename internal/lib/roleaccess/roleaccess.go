// Package roleaccess описывает статическую политику доступа ролей к
// маршрутам API. Политика — чистая функция (роль, путь) → разрешено,
// вычисляемая на каждом запросе; полный доступ задаётся явным флагом
// AllRoutes, а не строкой-«звёздочкой».
package roleaccess

import "strings"

// Rule описывает доступ одной роли: либо полный (AllRoutes), либо
// ограниченный набором префиксов путей.
type Rule struct {
	AllRoutes bool
	Prefixes  []string
}

// Policy отображает роль в её правило доступа. Роли без записи в
// политике не имеют доступа к защищённым маршрутам.
type Policy map[string]Rule

// Default возвращает политику доступа приложения: администратор имеет
// полный доступ, младший администратор работает с регистрациями и
// платежами, бухгалтерия — с платежами и журналом аудита.
func Default() Policy {
	return Policy{
		"Admin": {AllRoutes: true},
		"SubAdmin": {Prefixes: []string{
			"/api/auth",
			"/api/registration",
			"/api/payment",
		}},
		"Accounts": {Prefixes: []string{
			"/api/auth",
			"/api/payment",
			"/api/audit",
		}},
	}
}

// Allowed сообщает, разрешён ли роли доступ к пути. Сравнение — точное
// совпадение или совпадение по префиксу.
func (p Policy) Allowed(role, path string) bool {
	rule, ok := p[role]
	if !ok {
		return false
	}
	if rule.AllRoutes {
		return true
	}
	for _, prefix := range rule.Prefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// LandingPath возвращает стартовую страницу клиента для роли.
// Используется после входа и при отказе в доступе.
func LandingPath(role string) string {
	switch role {
	case "SubAdmin":
		return "/student-registration"
	case "Accounts":
		return "/transactions"
	default:
		return "/dashboard"
	}
}
