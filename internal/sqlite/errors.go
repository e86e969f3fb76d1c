package sqlite

import "strings"

// modernc.org/sqlite surfaces constraint failures as flat error strings;
// there is no typed error to unwrap.
func isConstraint(err error, kind string) bool {
	return err != nil && strings.Contains(err.Error(), kind+" constraint failed")
}

func isForeignKeyViolation(err error) bool { return isConstraint(err, "FOREIGN KEY") }

func isUniqueViolation(err error) bool { return isConstraint(err, "UNIQUE") }

func isCheckViolation(err error) bool { return isConstraint(err, "CHECK") }
