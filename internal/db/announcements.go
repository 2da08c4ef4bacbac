package db

import (
	"context"

	"github.com/campusops/registrar-back/internal/models"
)

func CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	return DB.WithContext(ctx).Create(a).Error
}

func ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := DB.WithContext(ctx).Order("created_at DESC").Find(&announcements).Error
	if err != nil {
		return nil, err
	}
	return announcements, nil
}

// ListFacultyAnnouncements returns only announcements posted by members
// of the faculty group, the instructor home feed.
func ListFacultyAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var announcements []models.Announcement
	err := DB.WithContext(ctx).
		Joins("JOIN user_groups ON user_groups.user_id = announcements.posted_by_id").
		Joins("JOIN groups ON groups.id = user_groups.group_id").
		Where("groups.name = ?", "faculty").
		Order("announcements.created_at DESC").
		Find(&announcements).Error
	if err != nil {
		return nil, err
	}
	return announcements, nil
}
