package redis

import (
	"context"
	"math/rand"
	"strconv"
	"time"

	"wellness-survey-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// DepartmentLoader fetches questionnaire content from a backing store.
type DepartmentLoader interface {
	LoadDepartment(ctx context.Context, name string) (domain.Department, error)
	ListDepartments(ctx context.Context) ([]string, error)
}

// DepartmentRepository caches questionnaires in Redis (hash per department)
// and falls back to a loader on cache miss.
// Questions are stored as: HSET survey:dept:{name}:questions {index} {text}
type DepartmentRepository struct {
	client *redis.Client
	loader DepartmentLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewDepartmentRepository(client *redis.Client, loader DepartmentLoader, ttl time.Duration) *DepartmentRepository {
	return &DepartmentRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *DepartmentRepository) GetDepartment(ctx context.Context, name string) (domain.Department, error) {
	key := r.questionsKey(name)

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err == nil && len(fields) > 0 {
		return buildDepartmentFromCache(name, fields), nil
	}

	result, err, _ := r.sf.Do(name, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		fields, err := r.client.HGetAll(ctx, key).Result()
		if err == nil && len(fields) > 0 {
			return buildDepartmentFromCache(name, fields), nil
		}

		department, err := r.loader.LoadDepartment(ctx, name)
		if err != nil {
			return domain.Department{}, err
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		for i, question := range department.Questions {
			pipe.HSet(ctx, key, strconv.Itoa(i), question)
		}
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return department, nil
	})
	if err != nil {
		return domain.Department{}, err
	}
	return result.(domain.Department), nil
}

func (r *DepartmentRepository) ListDepartments(ctx context.Context) ([]string, error) {
	return r.loader.ListDepartments(ctx)
}

func (r *DepartmentRepository) questionsKey(name string) string {
	return "survey:dept:" + name + ":questions"
}

func buildDepartmentFromCache(name string, fields map[string]string) domain.Department {
	questions := make([]string, len(fields))
	for rawIndex, question := range fields {
		index, err := strconv.Atoi(rawIndex)
		if err != nil || index < 0 || index >= len(questions) {
			continue
		}
		questions[index] = question
	}
	return domain.Department{Name: name, Questions: questions}
}

func (r *DepartmentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
