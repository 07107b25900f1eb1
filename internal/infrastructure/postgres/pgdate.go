package postgres

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/classhub/user-service/internal/domain/entity"
)

// pgDate adapts entity.Date to the postgres DATE column type.
type pgDate entity.Date

func (d *pgDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = pgDate{}
		return nil
	case time.Time:
		*d = pgDate(entity.DateOf(v))
		return nil
	case string:
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return err
		}
		*d = pgDate(entity.DateOf(t))
		return nil
	}
	return fmt.Errorf("cannot scan %T into date", src)
}

func (d pgDate) Value() (driver.Value, error) {
	return entity.Date(d).Time(), nil
}
