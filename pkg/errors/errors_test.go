package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

// TestAppError_Error 测试错误信息格式
func TestAppError_Error(t *testing.T) {
	// 不带内部错误
	appErr := New(ErrCodeInvalidParams, "参数错误")
	if appErr.Error() != "[40900] 参数错误" {
		t.Errorf("错误信息格式错误: %s", appErr.Error())
	}

	// 带内部错误
	wrapped := Wrap(errors.New("connection refused"), "数据库错误")
	expected := "[50000] 数据库错误: connection refused"
	if wrapped.Error() != expected {
		t.Errorf("期望%q，实际%q", expected, wrapped.Error())
	}
}

// TestAppError_Unwrap 测试errors.Is/As支持
func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("connection refused")
	appErr := Wrap(inner, "数据库错误")

	if !errors.Is(appErr, inner) {
		t.Error("errors.Is应能匹配被包装的内部错误")
	}

	// fmt.Errorf包装后仍能提取AppError
	doubleWrapped := fmt.Errorf("查询用户失败: %w", appErr)
	var extracted *AppError
	if !errors.As(doubleWrapped, &extracted) {
		t.Fatal("errors.As应能提取AppError")
	}
	if extracted.Code != ErrCodeInternal {
		t.Errorf("期望错误码%d，实际%d", ErrCodeInternal, extracted.Code)
	}
}

// TestAppError_HTTPStatus 测试业务错误码到HTTP状态码的映射
func TestAppError_HTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		code int
		want int
	}{
		{"内部错误→500", ErrCodeInternal, http.StatusInternalServerError},
		{"数据库错误→500", ErrCodeDatabaseError, http.StatusInternalServerError},
		{"未登录→401", ErrCodeUnauthorized, http.StatusUnauthorized},
		{"Token过期→401", ErrCodeTokenExpired, http.StatusUnauthorized},
		{"无权限→403", ErrCodeForbidden, http.StatusForbidden},
		{"订单不存在→404", ErrCodeOrderNotFound, http.StatusNotFound},
		{"明细不存在→404", ErrCodeLineNotFound, http.StatusNotFound},
		{"用户名重复→409", ErrCodeUsernameDuplicate, http.StatusConflict},
		{"库存不足→400", ErrCodeInsufficientStock, http.StatusBadRequest},
		{"订单不可修改→400", ErrCodeOrderNotModifiable, http.StatusBadRequest},
		{"参数错误→400", ErrCodeInvalidParams, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := New(tc.code, "test").HTTPStatus()
			if got != tc.want {
				t.Errorf("错误码%d: 期望HTTP %d，实际%d", tc.code, tc.want, got)
			}
		})
	}
}

// TestIsAppError 测试AppError判断
func TestIsAppError(t *testing.T) {
	if !IsAppError(ErrInsufficientStock) {
		t.Error("预定义错误应是AppError")
	}
	if IsAppError(errors.New("plain error")) {
		t.Error("普通error不应是AppError")
	}
}

// TestGetAppError 测试AppError提取
func TestGetAppError(t *testing.T) {
	// AppError原样返回
	got := GetAppError(ErrOrderNotFound)
	if got.Code != ErrCodeOrderNotFound {
		t.Errorf("期望错误码%d，实际%d", ErrCodeOrderNotFound, got.Code)
	}

	// 普通error包装成Internal
	got = GetAppError(errors.New("boom"))
	if got.Code != ErrCodeInternal {
		t.Errorf("普通error应包装成%d，实际%d", ErrCodeInternal, got.Code)
	}
}
