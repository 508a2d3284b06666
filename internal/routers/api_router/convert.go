package api_router

import (
	"github.com/haierkeys/objective-share-service/internal/domain"
	"github.com/haierkeys/objective-share-service/internal/dto"

	"github.com/jinzhu/copier"
)

func toObjectiveDTO(o *domain.Objective) *dto.ObjectiveDTO {
	if o == nil {
		return nil
	}
	out := &dto.ObjectiveDTO{}
	_ = copier.Copy(out, o)
	return out
}

func toCommentDTO(c *domain.Comment) *dto.CommentDTO {
	if c == nil {
		return nil
	}
	out := &dto.CommentDTO{}
	_ = copier.Copy(out, c)
	return out
}

func toCommentDTOs(list []*domain.Comment) []*dto.CommentDTO {
	out := make([]*dto.CommentDTO, 0, len(list))
	for _, c := range list {
		out = append(out, toCommentDTO(c))
	}
	return out
}

// toShareLinkDTO url 由调用方根据配置生成
func toShareLinkDTO(l *domain.ShareLink, url string) *dto.ShareLinkDTO {
	if l == nil {
		return nil
	}
	out := &dto.ShareLinkDTO{}
	_ = copier.Copy(out, l)
	out.Role = l.Role.String()
	out.URL = url
	return out
}

// toInviteDTO 不输出 Token
func toInviteDTO(i *domain.Invite) *dto.InviteDTO {
	if i == nil {
		return nil
	}
	out := &dto.InviteDTO{}
	_ = copier.Copy(out, i)
	out.Role = i.Role.String()
	return out
}
