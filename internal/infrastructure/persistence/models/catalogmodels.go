package models

type ProductGroupModel struct {
	ID        string `gorm:"primaryKey;size:50"`
	Name      string `gorm:"size:200;not null"`
	Active    int    `gorm:"not null;default:1"`
	SortOrder int    `gorm:"not null;default:0"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (ProductGroupModel) TableName() string {
	return "product_groups"
}

type ProductCategoryModel struct {
	ID        string `gorm:"primaryKey;size:50"`
	GroupID   string `gorm:"size:50;index"`
	Name      string `gorm:"size:200;not null"`
	Active    int    `gorm:"not null;default:1"`
	SortOrder int    `gorm:"not null;default:0"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (ProductCategoryModel) TableName() string {
	return "product_categories"
}

type ProductModel struct {
	ID          string  `gorm:"primaryKey;size:50"`
	CategoryID  string  `gorm:"size:50;index"`
	Name        string  `gorm:"size:200;not null"`
	Description string  `gorm:"type:text"`
	Price       float64 `gorm:"not null;default:0"`
	Active      int     `gorm:"not null;default:1"`
	ImageURL    string  `gorm:"size:500"`
	TagIDs      string  `gorm:"type:text;not null;default:'[]'"`
	UpdatedAt   int64   `gorm:"autoUpdateTime:milli;not null"`
}

func (ProductModel) TableName() string {
	return "products"
}

type TagGroupModel struct {
	ID        string `gorm:"primaryKey;size:50"`
	Name      string `gorm:"size:200;not null"`
	MinSelect int    `gorm:"not null;default:0"`
	MaxSelect int    `gorm:"not null;default:0"`
	Active    int    `gorm:"not null;default:1"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (TagGroupModel) TableName() string {
	return "tag_groups"
}

type ProductTagModel struct {
	ID         string  `gorm:"primaryKey;size:50"`
	TagGroupID string  `gorm:"size:50;index"`
	Name       string  `gorm:"size:200;not null"`
	Price      float64 `gorm:"not null;default:0"`
	Active     int     `gorm:"not null;default:1"`
	UpdatedAt  int64   `gorm:"autoUpdateTime:milli;not null"`
}

func (ProductTagModel) TableName() string {
	return "product_tags"
}

type ChargeModel struct {
	ID         string  `gorm:"primaryKey;size:50"`
	Name       string  `gorm:"size:200;not null"`
	ChargeType string  `gorm:"size:20;not null"`
	Value      float64 `gorm:"not null;default:0"`
	Active     int     `gorm:"not null;default:1"`
	UpdatedAt  int64   `gorm:"autoUpdateTime:milli;not null"`
}

func (ChargeModel) TableName() string {
	return "charges"
}

type ChargeMappingModel struct {
	ID          string `gorm:"primaryKey;size:50"`
	ChargeID    string `gorm:"size:50;index"`
	LocationID  string `gorm:"size:50;index"`
	OrderModeID string `gorm:"size:50"`
	Active      int    `gorm:"not null;default:1"`
	UpdatedAt   int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (ChargeMappingModel) TableName() string {
	return "charge_mappings"
}

type PaymentMethodModel struct {
	ID        string `gorm:"primaryKey;size:50"`
	Name      string `gorm:"size:200;not null"`
	Code      string `gorm:"size:50"`
	Active    int    `gorm:"not null;default:1"`
	SortOrder int    `gorm:"not null;default:0"`
	UpdatedAt int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}
