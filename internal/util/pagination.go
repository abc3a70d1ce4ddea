package util

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

func Offset(page, limit int) int {
	return (page - 1) * limit
}

func Pages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
