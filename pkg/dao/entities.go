package dao

import (
	"context"

	"gorm.io/gorm"

	"geostore/pkg/model"
)

type CategoryDAO struct{ *Base[model.Category] }

func NewCategoryDAO(db *gorm.DB) *CategoryDAO { return &CategoryDAO{NewBase[model.Category](db)} }

type ResourceDAO struct{ *Base[model.Resource] }

func NewResourceDAO(db *gorm.DB) *ResourceDAO { return &ResourceDAO{NewBase[model.Resource](db)} }

type StoredDataDAO struct{ *Base[model.StoredData] }

func NewStoredDataDAO(db *gorm.DB) *StoredDataDAO {
	return &StoredDataDAO{NewBase[model.StoredData](db)}
}

type AttributeDAO struct{ *Base[model.Attribute] }

func NewAttributeDAO(db *gorm.DB) *AttributeDAO { return &AttributeDAO{NewBase[model.Attribute](db)} }

type UserAttributeDAO struct{ *Base[model.UserAttribute] }

func NewUserAttributeDAO(db *gorm.DB) *UserAttributeDAO {
	return &UserAttributeDAO{NewBase[model.UserAttribute](db)}
}

type SecurityDAO struct{ *Base[model.Security] }

func NewSecurityDAO(db *gorm.DB) *SecurityDAO { return &SecurityDAO{NewBase[model.Security](db)} }

// UserDAO drops the user's group memberships together with the user.
type UserDAO struct{ *Base[model.User] }

func NewUserDAO(db *gorm.DB) *UserDAO { return &UserDAO{NewBase[model.User](db)} }

func (d *UserDAO) Remove(ctx context.Context, u *model.User) (bool, error) {
	return d.removeWith(ctx, u, func(tx *gorm.DB, id int64) error {
		return tx.Where("user_id = ?", id).Delete(&model.Membership{}).Error
	})
}

// UserGroupDAO drops the group's memberships together with the group.
type UserGroupDAO struct{ *Base[model.UserGroup] }

func NewUserGroupDAO(db *gorm.DB) *UserGroupDAO { return &UserGroupDAO{NewBase[model.UserGroup](db)} }

func (d *UserGroupDAO) Remove(ctx context.Context, g *model.UserGroup) (bool, error) {
	return d.removeWith(ctx, g, func(tx *gorm.DB, id int64) error {
		return tx.Where("group_id = ?", id).Delete(&model.Membership{}).Error
	})
}

// AddMember puts the user in the group.
func (d *UserGroupDAO) AddMember(ctx context.Context, userID, groupID int64) error {
	return d.db.WithContext(ctx).Create(&model.Membership{UserID: userID, GroupID: groupID}).Error
}

// Set is the full collection of DAOs sharing one connection.
type Set struct {
	Categories     *CategoryDAO
	Resources      *ResourceDAO
	StoredData     *StoredDataDAO
	Attributes     *AttributeDAO
	Users          *UserDAO
	UserAttributes *UserAttributeDAO
	UserGroups     *UserGroupDAO
	Security       *SecurityDAO
}

// NewSet wires every DAO to db.
func NewSet(db *gorm.DB) *Set {
	return &Set{
		Categories:     NewCategoryDAO(db),
		Resources:      NewResourceDAO(db),
		StoredData:     NewStoredDataDAO(db),
		Attributes:     NewAttributeDAO(db),
		Users:          NewUserDAO(db),
		UserAttributes: NewUserAttributeDAO(db),
		UserGroups:     NewUserGroupDAO(db),
		Security:       NewSecurityDAO(db),
	}
}

// Missing returns the names of unset DAOs.
func (s *Set) Missing() []string {
	var missing []string
	check := func(name string, ok bool) {
		if !ok {
			missing = append(missing, name)
		}
	}
	check("categories", s.Categories != nil)
	check("resources", s.Resources != nil)
	check("stored_data", s.StoredData != nil)
	check("attributes", s.Attributes != nil)
	check("users", s.Users != nil)
	check("user_attributes", s.UserAttributes != nil)
	check("user_groups", s.UserGroups != nil)
	check("security", s.Security != nil)
	return missing
}
