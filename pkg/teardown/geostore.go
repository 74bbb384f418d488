package teardown

import (
	"geostore/pkg/dao"
	"geostore/pkg/model"
)

// Entity names used in the GeoStore plan.
const (
	Category      = "category"
	Resource      = "resource"
	StoredData    = "storeddata"
	Attribute     = "attribute"
	Security      = "security"
	User          = "user"
	UserAttribute = "userattribute"
	UserGroup     = "usergroup"
)

// GeoStoreDependencies maps each entity to the entities purged before it.
// Security references resources, users and groups, so it goes ahead of
// all three. Group memberships are dropped by the User and UserGroup DAOs.
var GeoStoreDependencies = map[string][]string{
	Resource:  {StoredData, Attribute, Security},
	Category:  {Resource},
	User:      {UserAttribute, Security},
	UserGroup: {Security},
}

// GeoStorePlan declares a purge step for every DAO in set.
func GeoStorePlan(set *dao.Set) *Plan {
	p := NewPlan()
	p.Add(For[model.StoredData](StoredData, set.StoredData), GeoStoreDependencies[StoredData]...)
	p.Add(For[model.Attribute](Attribute, set.Attributes), GeoStoreDependencies[Attribute]...)
	p.Add(For[model.Security](Security, set.Security), GeoStoreDependencies[Security]...)
	p.Add(For[model.Resource](Resource, set.Resources), GeoStoreDependencies[Resource]...)
	p.Add(For[model.UserAttribute](UserAttribute, set.UserAttributes), GeoStoreDependencies[UserAttribute]...)
	p.Add(For[model.User](User, set.Users), GeoStoreDependencies[User]...)
	p.Add(For[model.UserGroup](UserGroup, set.UserGroups), GeoStoreDependencies[UserGroup]...)
	p.Add(For[model.Category](Category, set.Categories), GeoStoreDependencies[Category]...)
	return p
}
