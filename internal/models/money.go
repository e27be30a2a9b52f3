package models

import (
	"database/sql/driver"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// moneyScale 金额统一保留的小数位
const moneyScale = 2

// Money 金额，JSON 与数据库读写时都按两位小数取整
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal 取整到两位小数
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(moneyScale)}
}

// ParseMoney 解析十进制字符串
func ParseMoney(raw string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return Money{}, err
	}
	return NewMoneyFromDecimal(d), nil
}

// Times 单价乘数量
func (m Money) Times(quantity int) Money {
	return NewMoneyFromDecimal(m.Mul(decimal.NewFromInt(int64(quantity))))
}

// Plus 两个金额相加
func (m Money) Plus(other Money) Money {
	return NewMoneyFromDecimal(m.Add(other.Decimal))
}

func (m Money) String() string {
	return m.Decimal.StringFixed(moneyScale)
}

// MarshalJSON 输出为带两位小数的字符串，例如 "12.50"
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON 接受字符串或数字
func (m *Money) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	*m = NewMoneyFromDecimal(d)
	return nil
}

// Value 写库前取整
func (m Money) Value() (driver.Value, error) {
	return m.Round(moneyScale).Value()
}

// Scan 读库后取整
func (m *Money) Scan(value any) error {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return err
	}
	*m = NewMoneyFromDecimal(d)
	return nil
}
