package util

import (
	log "github.com/sirupsen/logrus"
)

type ErrorString struct {
	S string
}

func (e *ErrorString) Error() string {
	return e.S
}

// OptionValue возвращает значение параметра из настроек хранилища или значение по умолчанию.
func OptionValue(settings map[string]string, optionName string, optionDefaultValue string) string {
	optionValue := settings[optionName]
	if optionValue == "" {
		log.Debugf("Ключ '%s' не найден в конфигурации хранилища. Используется значение по умолчанию '%s'.", optionName, optionDefaultValue)
		optionValue = optionDefaultValue
	}

	return optionValue
}
