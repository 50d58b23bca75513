package shared

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"arena/shared/cache"
	"arena/shared/constant"
	"arena/shared/dto"
	"arena/shared/timezone"

	"github.com/rs/zerolog/log"
)

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.And(
		dto.Filter{
			Field:    fieldID,
			Value:    id,
			Operator: dto.FilterOperatorEq,
			Table:    table,
		},
	)
}

// FilterByIDNotDeleted matches a live row of a soft-deletable table.
func FilterByIDNotDeleted(id, fieldID, table string) dto.FilterGroup {
	return dto.And(
		dto.Filter{
			Field:    fieldID,
			Value:    id,
			Operator: dto.FilterOperatorEq,
			Table:    table,
		},
		NotDeleted(table),
	)
}

func NotDeleted(table string) dto.Filter {
	return dto.Filter{
		Field:    constant.FieldDeletedAt,
		Operator: dto.FilterIsNull,
		Table:    table,
	}
}

// UserFromContext returns the acting user id, or the system actor for unattended calls.
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == "" {
		return constant.ContextSystem
	}

	return user
}

func BuildCacheKey(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}

	return prefix + ":" + strings.Join(parts, ":")
}

func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	return BuildCacheKey(prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		fmt.Sprintf("%s%v", where, args),
	)
}

// InvalidateCaches clears every key under prefix. Failures are logged only; a stale
// catalog entry expires with its TTL.
func InvalidateCaches(ctx context.Context, c cache.RedisCache, prefix string) {
	if err := c.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
