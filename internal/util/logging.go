package util

import (
	"fmt"
	"log"
)

// LogError логирует ошибку и возвращает её обёрнутой с тем же сообщением
func LogError(message string, err error) error {
	log.Printf("%s: %v", message, err)
	return fmt.Errorf("%s: %w", message, err)
}
