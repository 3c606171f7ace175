package ui

import (
	"errors"
	"strings"

	"github.com/pkrauchanka/tg-history-tutor/pkg/corpus"
)

const (
	QuizCallbackPrefix = "q:"
	MaxCallbackDataLen = 64
)

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidCategory     = errors.New("invalid callback category")
	errCallbackDataTooLong = errors.New("callback data too long")
)

func BuildQuizCallback(category corpus.Category) (string, error) {
	if _, err := corpus.ParseCategory(string(category)); err != nil {
		return "", errInvalidCategory
	}
	data := QuizCallbackPrefix + string(category)
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}

func ParseQuizCallback(data string) (corpus.Category, error) {
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	if !strings.HasPrefix(data, QuizCallbackPrefix) {
		return "", errInvalidPrefix
	}
	category, err := corpus.ParseCategory(strings.TrimPrefix(data, QuizCallbackPrefix))
	if err != nil {
		return "", errInvalidCategory
	}
	return category, nil
}
