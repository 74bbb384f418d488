// Package model holds the GeoStore entities persisted by the DAOs.
// Foreign keys are plain ID columns; the schema package owns the
// constraints.
package model

import "time"

// Entity is implemented by every persisted row type.
type Entity interface {
	Key() int64
	TableName() string
}

// Category groups resources.
type Category struct {
	ID   int64  `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

func (c Category) Key() int64 { return c.ID }
func (Category) TableName() string { return "gs_category" }

// Resource is the main GeoStore document. It belongs to a Category.
type Resource struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Description string     `json:"description,omitempty"`
	Metadata    string     `json:"metadata,omitempty"`
	Creation    time.Time  `gorm:"not null" json:"creation"`
	LastUpdate  *time.Time `json:"last_update,omitempty"`
	Creator     string     `gorm:"size:255" json:"creator,omitempty"`
	Editor      string     `gorm:"size:255" json:"editor,omitempty"`
	Advertised  bool       `json:"advertised"`
	CategoryID  int64      `gorm:"not null" json:"category_id"`
}

func (r Resource) Key() int64 { return r.ID }
func (Resource) TableName() string { return "gs_resource" }

// StoredData is the raw payload attached to a Resource.
type StoredData struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	Data       string `json:"data"`
	ResourceID int64  `gorm:"not null" json:"resource_id"`
}

func (d StoredData) Key() int64 { return d.ID }
func (StoredData) TableName() string { return "gs_stored_data" }

// Attribute is a typed key/value pair on a Resource.
type Attribute struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:255;not null" json:"name"`
	Type       string `gorm:"size:255;not null" json:"type"`
	Value      string `gorm:"size:255" json:"value"`
	ResourceID int64  `gorm:"not null" json:"resource_id"`
}

func (a Attribute) Key() int64 { return a.ID }
func (Attribute) TableName() string { return "gs_attribute" }

// User is a GeoStore account.
type User struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Password string `gorm:"size:255" json:"-"`
	Role     string `gorm:"size:255;not null" json:"role"`
}

func (u User) Key() int64 { return u.ID }
func (User) TableName() string { return "gs_user" }

// UserAttribute is a key/value pair on a User.
type UserAttribute struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"size:255;not null" json:"name"`
	Type   string `gorm:"size:255;not null" json:"type"`
	Value  string `gorm:"size:255" json:"value"`
	UserID int64  `gorm:"not null" json:"user_id"`
}

func (a UserAttribute) Key() int64 { return a.ID }
func (UserAttribute) TableName() string { return "gs_user_attribute" }

// UserGroup collects users through Membership rows.
type UserGroup struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	GroupName string `gorm:"size:255;not null" json:"group_name"`
}

func (g UserGroup) Key() int64 { return g.ID }
func (UserGroup) TableName() string { return "gs_usergroup" }

// Membership joins a User to a UserGroup.
type Membership struct {
	UserID  int64 `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	GroupID int64 `gorm:"primaryKey;autoIncrement:false" json:"group_id"`
}

func (Membership) TableName() string { return "gs_usergroup_members" }

// Security grants read/write on a Resource to a User or a UserGroup.
// Exactly one of UserID and GroupID is normally set.
type Security struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	CanRead    bool   `json:"can_read"`
	CanWrite   bool   `json:"can_write"`
	ResourceID int64  `gorm:"not null" json:"resource_id"`
	UserID     *int64 `json:"user_id,omitempty"`
	GroupID    *int64 `json:"group_id,omitempty"`
}

func (s Security) Key() int64 { return s.ID }
func (Security) TableName() string { return "gs_security" }
