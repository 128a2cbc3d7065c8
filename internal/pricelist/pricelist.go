// internal/pricelist/pricelist.go

// Package pricelist implements the YAML price-list format exchanged with
// suppliers: a flat list of goods, each naming its shop and category.
package pricelist

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

type Good struct {
	ExternalID int64   `yaml:"id,omitempty"`
	Name       string  `yaml:"name"`
	Category   string  `yaml:"category"`
	Shop       string  `yaml:"shop"`
	Model      string  `yaml:"model"`
	Price      float64 `yaml:"price"`
	Quantity   int     `yaml:"quantity"`
}

type PriceList struct {
	Shops      []string `yaml:"shops"`
	Categories []string `yaml:"categories"`
	Goods      []Good   `yaml:"goods"`
}

var ErrNoGoods = errors.New("price list has no goods section")

func Parse(data []byte) (*PriceList, error) {
	var list PriceList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse price list: %w", err)
	}

	if list.Goods == nil {
		return nil, ErrNoGoods
	}

	return &list, nil
}

func Render(list *PriceList) ([]byte, error) {
	data, err := yaml.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("failed to render price list: %w", err)
	}
	return data, nil
}
