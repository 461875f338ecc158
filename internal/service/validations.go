package service

import (
	"math"
	"strconv"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			for i, char := range value {
				// Cannot start with a space or punctuation
				if i == 0 && !unicode.IsLetter(char) {
					return false
				}
				if !unicode.IsLetter(char) && char != ' ' && char != '\'' && char != '.' && char != '-' {
					return false
				}
			}
			return true
		})
	})
}

// Percent rounds done/total to a whole percentage. 1 of 7 gives 14.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// AcademicYear formats the Indonesian school year label for a moment in
// time. The year rolls over in July.
func AcademicYear(t time.Time) string {
	year := t.Year()
	if t.Month() >= time.July {
		return strconv.Itoa(year) + "/" + strconv.Itoa(year+1)
	}
	return strconv.Itoa(year-1) + "/" + strconv.Itoa(year)
}
