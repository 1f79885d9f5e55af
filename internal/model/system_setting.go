package model

// SystemSetting настраиваемый на лету параметр системы.
// Значение хранится текстом и может быть пустым: потребитель обязан
// подставить собственный дефолт.
type SystemSetting struct {
	ID          int64  `json:"id"`
	Name        string `json:"parameter_name"`
	Value       string `json:"parameter_value"`
	Description string `json:"description"`
}
