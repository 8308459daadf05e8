package repository

import "errors"

// ErrNotFound возвращается и когда записи нет, и когда она принадлежит
// другому пользователю: чужие записи неотличимы от несуществующих
var ErrNotFound = errors.New("запись не найдена")
