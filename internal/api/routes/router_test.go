package routes_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yong0-sa/weconnect-sub000/internal/api/handlers"
	"github.com/Yong0-sa/weconnect-sub000/internal/api/routes"
	"github.com/Yong0-sa/weconnect-sub000/internal/domain/entities"
)

const testSecret = "test-secret"

func newServer(t *testing.T) http.Handler {
	t.Helper()
	state, err := handlers.NewSeededState()
	require.NoError(t, err)
	return routes.New(state, testSecret)
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func signupAndLogin(t *testing.T, h http.Handler, email, nickname string) entities.LoginResponse {
	t.Helper()
	w := doJSON(t, h, http.MethodPost, "/api/auth/signup", "", entities.SignupRequest{
		Email: email, Password: "password1", Nickname: nickname, Role: entities.RolePersonal,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, h, http.MethodPost, "/api/auth/login", "", entities.LoginRequest{Email: email, Password: "password1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var login entities.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&login))
	return login
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var msg entities.MessageResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&msg))
	return msg.Message
}

func TestRouter_ProtectedRouteWithoutCredentials(t *testing.T) {
	h := newServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/coins/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "로그인이 필요합니다.", decodeMessage(t, w))
}

func TestRouter_FarmsArePublic(t *testing.T) {
	h := newServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/farms", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var farms []entities.Farm
	require.NoError(t, json.NewDecoder(w.Body).Decode(&farms))
	assert.Len(t, farms, 4)
}

func TestRouter_LoginSetsSessionCookie(t *testing.T) {
	h := newServer(t)
	signupAndLogin(t, h, "cookie@weconnect.kr", "쿠키")

	w := doJSON(t, h, http.MethodPost, "/api/auth/login", "", entities.LoginRequest{Email: "cookie@weconnect.kr", Password: "password1"})
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "SESSION", cookies[0].Name)

	req := httptest.NewRequest(http.MethodGet, "/api/coins/me", nil)
	req.AddCookie(cookies[0])
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_WrongPasswordIsNotUnauthorized(t *testing.T) {
	h := newServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/auth/login", "", entities.LoginRequest{Email: handlers.SeedFarmerEmail, Password: "nope"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "이메일 또는 비밀번호가 올바르지 않습니다.", decodeMessage(t, w))
}

func TestRouter_CoinsSpendRefusedWhenShort(t *testing.T) {
	h := newServer(t)
	login := signupAndLogin(t, h, "coins@weconnect.kr", "코인")

	w := doJSON(t, h, http.MethodPost, "/api/coins/purchase", login.Token, entities.CoinChangeRequest{Amount: handlers.SignupBonusCoins + 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "코인이 부족합니다.", decodeMessage(t, w))

	w = doJSON(t, h, http.MethodPost, "/api/coins/add", login.Token, entities.CoinChangeRequest{Amount: 10, Reason: "diary"})
	require.Equal(t, http.StatusOK, w.Code)
	var balance entities.CoinBalance
	require.NoError(t, json.NewDecoder(w.Body).Decode(&balance))
	require.NotNil(t, balance.CoinBalance)
	assert.Equal(t, handlers.SignupBonusCoins+10, *balance.CoinBalance)
}

func TestRouter_DiaryMultipartEchoesCivilDate(t *testing.T) {
	h := newServer(t)
	login := signupAndLogin(t, h, "diary@weconnect.kr", "일기")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	require.NoError(t, form.WriteField("diary", `{"title":"첫 수확","content":"상추를 땄다","selectAt":"2024-05-01"}`))
	part, err := form.CreateFormFile("image", "lettuce.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("\x89PNG fake"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/diary", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+login.Token)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var entry entities.DiaryEntry
	require.NoError(t, json.NewDecoder(w.Body).Decode(&entry))
	assert.Equal(t, "2024-05-01T00:00:00", entry.SelectAt)
	assert.Equal(t, "2024-05-01", entry.DisplayDate())
	assert.True(t, strings.HasPrefix(entry.Photo, "data:"))
}

func TestRouter_ContractDecisionOwnerOnly(t *testing.T) {
	h := newServer(t)
	renter := signupAndLogin(t, h, "renter@weconnect.kr", "세입자")

	w := doJSON(t, h, http.MethodPost, "/api/farm-contracts", renter.Token, entities.ContractApplication{FarmID: 1, Message: "주말 이용"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var contract entities.FarmContract
	require.NoError(t, json.NewDecoder(w.Body).Decode(&contract))

	w = doJSON(t, h, http.MethodPut, "/api/farm-contracts/1/approve", renter.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/auth/login", "", entities.LoginRequest{Email: handlers.SeedFarmerEmail, Password: handlers.SeedFarmerPassword})
	require.Equal(t, http.StatusOK, w.Code)
	var owner entities.LoginResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&owner))

	w = doJSON(t, h, http.MethodPut, "/api/farm-contracts/1/approve", owner.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&contract))
	assert.Equal(t, entities.ContractStatusApproved, contract.Status)

	w = doJSON(t, h, http.MethodPut, "/api/farm-contracts/1/reject", owner.Token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_DeletedCommentLeavesOrphanReply(t *testing.T) {
	h := newServer(t)
	login := signupAndLogin(t, h, "posts@weconnect.kr", "글쓴이")

	w := doJSON(t, h, http.MethodPost, "/api/posts", login.Token, entities.PostInput{Title: "질문", Content: "토마토 지지대"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodPost, "/api/comments", login.Token, entities.CommentInput{PostID: 1, Content: "부모"})
	require.Equal(t, http.StatusCreated, w.Code)
	parent := int64(1)
	w = doJSON(t, h, http.MethodPost, "/api/comments", login.Token, entities.CommentInput{PostID: 1, ParentID: &parent, Content: "답글"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, h, http.MethodDelete, "/api/comments/1", login.Token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, h, http.MethodGet, "/api/comments?postId=1", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var comments []entities.Comment
	require.NoError(t, json.NewDecoder(w.Body).Decode(&comments))
	require.Len(t, comments, 1)
	assert.Equal(t, int64(1), *comments[0].ParentID)
}

func TestRouter_UnknownRouteUsesEnvelope(t *testing.T) {
	h := newServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/nope", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, decodeMessage(t, w))
}
