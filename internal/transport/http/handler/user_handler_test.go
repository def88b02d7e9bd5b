package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"user-account-api/internal/domain"
	"user-account-api/internal/repo"
	"user-account-api/internal/service"
	"user-account-api/internal/transport/http/handler"
	"user-account-api/internal/transport/http/router"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))

	svc := service.NewUserService(repo.NewUserRepo(db), nil, time.Minute, nil)
	return router.NewEngine(zap.NewNop(), handler.NewUserHandler(svc, nil))
}

type envelope struct {
	Error   string         `json:"error"`
	Data    map[string]any `json:"data"`
	Success bool           `json:"success"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (int, envelope, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	return w.Code, env, raw
}

func aliceBody() map[string]string {
	return map[string]string{
		"email": "a@x.com", "username": "alice", "firstName": "A", "lastName": "L",
	}
}

func TestCreateUser(t *testing.T) {
	r := newTestEngine(t)

	code, env, raw := doJSON(t, r, http.MethodPost, "/users/new", aliceBody())
	assert.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
	assert.Empty(t, env.Error)
	assert.Equal(t, "a@x.com", env.Data["email"])
	assert.Equal(t, "alice", env.Data["username"])
	assert.Equal(t, "A", env.Data["firstName"])
	assert.Equal(t, "L", env.Data["lastName"])
	// 公开字段不含 id / password，成功响应省略 error
	assert.NotContains(t, env.Data, "id")
	assert.NotContains(t, env.Data, "password")
	assert.NotContains(t, raw, "error")
}

func TestCreateUser_Validation(t *testing.T) {
	r := newTestEngine(t)

	body := aliceBody()
	delete(body, "username")
	code, env, raw := doJSON(t, r, http.MethodPost, "/users/new", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Equal(t, "ValidationError", env.Error)
	assert.NotContains(t, raw, "data")
}

func TestCreateUser_Conflicts(t *testing.T) {
	r := newTestEngine(t)
	code, _, _ := doJSON(t, r, http.MethodPost, "/users/new", aliceBody())
	require.Equal(t, http.StatusCreated, code)

	body := aliceBody()
	body["username"] = "bob"
	code, env, _ := doJSON(t, r, http.MethodPost, "/users/new", body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "EmailAlreadyInUse", env.Error)

	body = aliceBody()
	body["email"] = "b@x.com"
	code, env, _ = doJSON(t, r, http.MethodPost, "/users/new", body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "UsernameAlreadyTaken", env.Error)
}

func TestEditUser(t *testing.T) {
	r := newTestEngine(t)
	_, _, _ = doJSON(t, r, http.MethodPost, "/users/new", aliceBody())

	// id 从 1 开始自增
	body := aliceBody()
	body["firstName"] = "Anna"
	code, env, _ := doJSON(t, r, http.MethodPost, "/users/edit/1", body)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "Anna", env.Data["firstName"])
	assert.Equal(t, "a@x.com", env.Data["email"])

	// 同一请求重放仍成功（对自己不构成冲突）
	code, env, _ = doJSON(t, r, http.MethodPost, "/users/edit/1", body)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
}

func TestEditUser_NotFound(t *testing.T) {
	r := newTestEngine(t)

	code, env, _ := doJSON(t, r, http.MethodPost, "/users/edit/99", aliceBody())
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "UserNotFound", env.Error)

	// 非数字 id 同样视为查无此人
	code, env, _ = doJSON(t, r, http.MethodPost, "/users/edit/abc", aliceBody())
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "UserNotFound", env.Error)
}

func TestEditUser_ValidationBeforeLookup(t *testing.T) {
	r := newTestEngine(t)

	body := aliceBody()
	body["lastName"] = ""
	code, env, _ := doJSON(t, r, http.MethodPost, "/users/edit/99", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "ValidationError", env.Error)
}

func TestEditUser_Conflict(t *testing.T) {
	r := newTestEngine(t)
	_, _, _ = doJSON(t, r, http.MethodPost, "/users/new", aliceBody())
	_, _, _ = doJSON(t, r, http.MethodPost, "/users/new", map[string]string{
		"email": "b@x.com", "username": "bob", "firstName": "B", "lastName": "M",
	})

	// 把 2 号改成 1 号的 email → 409，不是 404
	body := map[string]string{
		"email": "a@x.com", "username": "bob", "firstName": "B", "lastName": "M",
	}
	code, env, _ := doJSON(t, r, http.MethodPost, "/users/edit/2", body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "EmailAlreadyInUse", env.Error)
}

func TestGetUserByEmail(t *testing.T) {
	r := newTestEngine(t)
	_, _, _ = doJSON(t, r, http.MethodPost, "/users/new", aliceBody())

	code, env, _ := doJSON(t, r, http.MethodGet, "/users?email=a@x.com", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "alice", env.Data["username"])
	// 查询返回整行（含 id），但永不输出口令
	assert.Contains(t, env.Data, "id")
	assert.NotContains(t, env.Data, "password")

	code, env, _ = doJSON(t, r, http.MethodGet, "/users?email=nobody@x.com", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "UserNotFound", env.Error)
}

func TestHealth(t *testing.T) {
	r := newTestEngine(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
