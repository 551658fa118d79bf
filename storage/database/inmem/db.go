package inmemdb

import (
	"sync"

	"github.com/trezcool/shule/core/user"
)

type userTable struct {
	sync.RWMutex
	table map[string]*user.User
}

// DB is an in-memory store used in DEV mode and by tests.
type DB struct {
	user *userTable
}

func Open() (*DB, error) {
	db := &DB{
		user: &userTable{table: make(map[string]*user.User)},
	}
	return db, nil
}
