package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// maxPageSize 单页记录上限
const maxPageSize = 100

// paginate 页码小于 1 视为第一页，pageSize 不大于 0 时不分页
func paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	pageSize = min(pageSize, maxPageSize)
	page = max(page, 1)
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

// firstOrNil 取第一条记录，未找到时返回 nil, nil
func firstOrNil[T any](query *gorm.DB, conds ...any) (*T, error) {
	record := new(T)
	err := query.First(record, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// searchCondition 生成多列模糊匹配条件；postgres 使用 ILIKE，sqlite 的 LIKE 对 ASCII 已不区分大小写
func searchCondition(db *gorm.DB, keyword string, columns ...string) (string, []any) {
	operator := "LIKE"
	if db != nil && db.Dialector != nil {
		switch strings.ToLower(db.Dialector.Name()) {
		case "postgres", "postgresql":
			operator = "ILIKE"
		}
	}
	pattern := "%" + keyword + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		if column = strings.TrimSpace(column); column == "" {
			continue
		}
		clauses = append(clauses, column+" "+operator+" ?")
		args = append(args, pattern)
	}
	return strings.Join(clauses, " OR "), args
}
