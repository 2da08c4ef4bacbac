package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/campusops/registrar-back/internal/models"
)

func UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := DB.WithContext(ctx).Preload("Groups").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// StudentByEmail resolves the profile through the owning user identity.
func StudentByEmail(ctx context.Context, email string) (*models.StudentProfile, error) {
	user, err := UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	var profile models.StudentProfile
	if err := DB.WithContext(ctx).Preload("User").Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		return nil, translate(err)
	}
	return &profile, nil
}

func EnsureGroup(ctx context.Context, name string) (*models.Group, error) {
	var group models.Group
	err := DB.WithContext(ctx).Where(models.Group{Name: name}).FirstOrCreate(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func UserInGroup(ctx context.Context, email, groupName string) (bool, error) {
	user, err := UserByEmail(ctx, email)
	if err != nil {
		if err == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	for _, g := range user.Groups {
		if g.Name == groupName {
			return true, nil
		}
	}
	return false, nil
}

// CreateStudent creates the identity, its "student" group membership and
// the profile as one unit. The caller has already checked for duplicates;
// the unique email index is the backstop.
func CreateStudent(ctx context.Context, user *models.User, profile *models.StudentProfile) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		var group models.Group
		if err := tx.Where(models.Group{Name: "student"}).FirstOrCreate(&group).Error; err != nil {
			return err
		}
		if err := tx.Model(user).Association("Groups").Append(&group); err != nil {
			return err
		}

		profile.UserID = user.ID
		return tx.Create(profile).Error
	})
}

// DeleteUserByEmail removes the identity; the profile and its grades go
// with it, announcements keep a nulled poster reference.
func DeleteUserByEmail(ctx context.Context, email string) error {
	user, err := UserByEmail(ctx, email)
	if err != nil {
		return err
	}
	return DB.WithContext(ctx).Select("Groups").Delete(user).Error
}
