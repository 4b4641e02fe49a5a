package techblog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/aisa-it/techblog/internal/techblog/apierrors"
	"github.com/aisa-it/techblog/internal/techblog/dao"
	"github.com/aisa-it/techblog/internal/techblog/dto"
	"github.com/aisa-it/techblog/internal/techblog/editor/edtypes"
	policy "github.com/aisa-it/techblog/internal/techblog/redactor-policy"
)

// ContentFallbackHTML показывается вместо тела статьи, которое не удалось отрендерить.
const ContentFallbackHTML = `<p>コンテンツを読み込めませんでした。</p>`

const excerptLength = 160

func (s *Services) AddArticleServices(g *echo.Group) {
	g.GET("articles/", s.listArticles)
	g.GET("articles/:slug/", s.getArticle)
	g.GET("categories/", s.listCategories)
	g.GET("categories/:slug/articles/", s.getCategoryArticles)
}

// getArticle возвращает опубликованную статью с отрендеренным лидом, телом и оглавлением.
func (s *Services) getArticle(c echo.Context) error {
	post, err := dao.GetPublishedPost(s.db, pathParam(c, "slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EErrorDefined(c, apierrors.ErrPostNotFound)
		}
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, s.renderArticle(post))
}

// renderArticle рендерит тело и лид. Ошибки хранимого содержимого не выходят за пределы статьи.
func (s *Services) renderArticle(post *dao.Post) *dto.Article {
	article := post.ToDTO()

	body := s.renderer.Render(json.RawMessage(post.Content))
	if body.Degraded {
		slog.Warn("Article content degraded", "slug", post.Slug, "id", post.ID)
		article.ContentHTML = ContentFallbackHTML
		article.Headings = []edtypes.HeadingAnchor{}
		article.Degraded = true
	} else {
		article.ContentHTML = body.HTML
		article.Headings = body.Headings
	}

	if len(post.Lead) > 0 {
		lead := s.renderer.Render(json.RawMessage(post.Lead))
		if lead.Degraded {
			slog.Warn("Article lead degraded", "slug", post.Slug, "id", post.ID)
		}
		article.LeadHTML = lead.HTML
	}

	if post.Description != nil && *post.Description != "" {
		article.Excerpt = policy.Excerpt(policy.Sanitize(*post.Description), excerptLength)
	} else if article.LeadHTML != "" {
		article.Excerpt = policy.Excerpt(article.LeadHTML, excerptLength)
	} else if !article.Degraded {
		article.Excerpt = policy.Excerpt(article.ContentHTML, excerptLength)
	}
	return article
}

func (s *Services) listArticles(c echo.Context) error {
	var req ArticleListRequest
	if err := c.Bind(&req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequest.WithFormattedMessage(err.Error()))
	}
	if err := c.Validate(req); err != nil {
		return EErrorDefined(c, apierrors.ErrInvalidRequest.WithFormattedMessage(err.Error()))
	}

	posts, err := dao.ListPublishedPosts(s.db, req.Category, req.Limit)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, toLightArticles(posts))
}

func (s *Services) listCategories(c echo.Context) error {
	categories, err := dao.ListCategories(s.db)
	if err != nil {
		return EError(c, err)
	}
	res := make([]dto.CategoryLight, 0, len(categories))
	for i := range categories {
		res = append(res, *categories[i].ToLightDTO())
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Services) getCategoryArticles(c echo.Context) error {
	category, err := dao.GetCategory(s.db, pathParam(c, "slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EErrorDefined(c, apierrors.ErrCategoryNotFound)
		}
		return EError(c, err)
	}

	posts, err := dao.ListPublishedPosts(s.db, category.Slug, 0)
	if err != nil {
		return EError(c, err)
	}
	return c.JSON(http.StatusOK, dto.CategoryArticles{
		Category: *category.ToLightDTO(),
		Articles: toLightArticles(posts),
	})
}

func toLightArticles(posts []dao.Post) []dto.ArticleLight {
	res := make([]dto.ArticleLight, 0, len(posts))
	for i := range posts {
		res = append(res, *posts[i].ToLightDTO())
	}
	return res
}
